// internal/app/features/memberships/handler.go
package memberships

import (
	"errors"
	"net/http"

	membershipstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/memberships"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves membership applications. Activating one issues the
// member's card: the application id is linked on the user so the desk
// can check them in and record redemptions.
type Handler struct {
	Applications *membershipstore.Store
	Users        *userstore.Store
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Applications: membershipstore.New(db),
		Users:        userstore.New(db),
		Log:          logger,
	}
}

var errApplicationNotFound = apierr.NotFound("Membership application not found")

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, membershipstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, errApplicationNotFound)
	case errors.Is(err, membershipstore.ErrDuplicate):
		apiresp.Error(w, r, h.Log, apierr.Conflict("Membership application already exists for this user"))
	case errors.Is(err, membershipstore.ErrInvalidStatus):
		apiresp.Error(w, r, h.Log, apierr.BadRequest(`Membership status must be "pending", "active", "rejected" or "expired"`))
	case errors.Is(err, userstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, apierr.BadRequest("User doesn't exist!"))
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}
