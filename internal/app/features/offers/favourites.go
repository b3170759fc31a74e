package offers

import (
	"context"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/formutil"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
)

// HandleToggleFavourite handles POST /exclusive-offers/favourite/{id}.
func (h *Handler) HandleToggleFavourite(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.IDParam(r, "id")
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Offers.GetByID(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	fav, err := h.Favourites.Toggle(ctx, authz.UserID(r), id)
	if err != nil {
		apiresp.Error(w, r, h.Log, err)
		return
	}

	msg := "Offer removed from favourites"
	if fav {
		msg = "Offer added to favourites"
	}
	apiresp.OK(w, msg, map[string]bool{"isFavourite": fav})
}
