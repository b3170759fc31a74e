// internal/app/features/eventregistrations/routes.go
package eventregistrations

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/event-registrations.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.All...))

	r.Post("/", h.HandleCreate)
	r.Post("/cancel", h.HandleCancel)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Delete("/{id}", h.HandleDelete)

	r.With(sm.RequireRole(authz.Staff...)).Patch("/{id}", h.HandleUpdate)
	return r
}
