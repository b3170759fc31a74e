// internal/app/features/offers/routes.go
package offers

import (
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/v1/exclusive-offers. Every signed-in role
// may use it; ownership is checked per offer.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.All...))

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Get("/my-offers", h.ServeMine)
	r.Get("/all/favourite", h.ServeFavourites)
	r.Post("/favourite/{id}", h.HandleToggleFavourite)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
