// internal/app/features/eventregistrations/handler.go
package eventregistrations

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/events"
	registrationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/registrations"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Registrations *registrationstore.Store
	Events        *eventstore.Store
	Users         *userstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Registrations: registrationstore.New(db),
		Events:        eventstore.New(db),
		Users:         userstore.New(db),
		Log:           logger,
	}
}

type registrationView struct {
	models.EventRegistration
	User *models.UserSummary `json:"user,omitempty"`
}

func (h *Handler) populate(ctx context.Context, items []models.EventRegistration) ([]registrationView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, reg := range items {
		ids = append(ids, reg.User)
	}
	users, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]registrationView, 0, len(items))
	for _, reg := range items {
		v := registrationView{EventRegistration: reg}
		if u, ok := users[reg.User]; ok {
			v.User = &u
		}
		out = append(out, v)
	}
	return out, nil
}

var (
	errAlreadyRegistered = apierr.Conflict("User has already registered for this event")
	errRegNotFound       = apierr.NotFound("Event registration not found")
)

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registrationstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, errRegNotFound)
	case errors.Is(err, registrationstore.ErrDuplicate):
		apiresp.Error(w, r, h.Log, errAlreadyRegistered)
	case errors.Is(err, registrationstore.ErrNotPending):
		apiresp.Error(w, r, h.Log, apierr.BadRequest("You are not able to to cancel it"))
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}
