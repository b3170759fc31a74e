// internal/app/features/partnerrequests/routes.go
package partnerrequests

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/partner-requests. Applying is public and
// rate limited per client IP; everything else is for staff.
func Routes(h *Handler, sm *auth.SessionManager, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.With(ratelimit.Middleware(limiter, h.Log, "Too many applications, please try again later")).
		Post("/", h.HandleCreate)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.Staff...))
		r.Post("/crate-from", h.HandleStaffCreate)
		r.Get("/", h.ServeList)
		r.Get("/{id}", h.ServeGet)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	return r
}
