// internal/app/features/events/handler.go
package events

import (
	"errors"
	"net/http"

	eventstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/events"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events: eventstore.New(db),
		Log:    logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, eventstore.ErrNotFound) {
		apiresp.Error(w, r, h.Log, apierr.NotFound("Event not found"))
		return
	}
	apiresp.Error(w, r, h.Log, err)
}
