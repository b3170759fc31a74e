// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/audit-events; admins only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.Staff...))
	r.Get("/", h.ServeList)
	return r
}
