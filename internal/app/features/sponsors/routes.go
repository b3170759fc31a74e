// internal/app/features/sponsors/routes.go
package sponsors

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/sponsors.
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
