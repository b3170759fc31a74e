// internal/app/features/users/routes.go
package users

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/users.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Patch("/", h.HandleUpdate)
		pr.Get("/my-profile", h.ServeProfile)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.Staff...))
		pr.Get("/", h.ServeList)
		pr.Get("/statistics", h.ServeStatistics)
	})
	return r
}
