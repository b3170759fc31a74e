// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/daily-attendance. Every route is open to
// admins, superadmins and partners.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.Desk...))

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Get("/overview", h.ServeOverview)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
