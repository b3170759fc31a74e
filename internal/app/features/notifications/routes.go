// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.All...))
	r.Get("/", h.ServeList)
	r.Get("/unseen", h.ServeUnseen)
	r.Patch("/seen", h.HandleMarkSeen)
	return r
}
