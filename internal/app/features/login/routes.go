// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/v1/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Post("/verify-email", h.HandleVerifyEmail)
	r.Post("/resend-otp", h.HandleResendCode)
	return r
}
