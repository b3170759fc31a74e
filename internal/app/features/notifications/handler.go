// internal/app/features/notifications/handler.go
package notifications

import (
	notificationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/notifications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}
