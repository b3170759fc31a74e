// internal/app/features/sponsors/handler.go
package sponsors

import (
	sponsorstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/sponsors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Sponsors *sponsorstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Sponsors: sponsorstore.New(db), Log: logger}
}
