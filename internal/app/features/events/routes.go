// internal/app/features/events/routes.go
package events

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/events. Any signed-in user may read;
// admins write.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.All...))
		r.Get("/", h.ServeList)
		r.Get("/{id}", h.ServeGet)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.Staff...))
		r.Post("/", h.HandleCreate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	return r
}
