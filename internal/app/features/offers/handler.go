// internal/app/features/offers/handler.go
package offers

import (
	"errors"
	"net/http"

	favouritestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/favourites"
	offerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offers"
	offerviewstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offerviews"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves exclusive offers together with their favourites and
// view history.
type Handler struct {
	Offers     *offerstore.Store
	Favourites *favouritestore.Store
	Views      *offerviewstore.Store
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Offers:     offerstore.New(db),
		Favourites: favouritestore.New(db),
		Views:      offerviewstore.New(db),
		Log:        logger,
	}
}

var errOfferNotFound = apierr.NotFound("Exclusive offer not found")

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, offerstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, errOfferNotFound)
	case errors.Is(err, offerstore.ErrInvalidStatus):
		apiresp.Error(w, r, h.Log, apierr.BadRequest(`Status must be "pending", "approved" or "rejected"`))
	case errors.Is(err, offerstore.ErrInvalidLocation):
		apiresp.Error(w, r, h.Log, apierr.BadRequest("Location must be a Point with [longitude, latitude]"))
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}
