// internal/app/features/redemptions/handler.go
package redemptions

import (
	"context"
	"time"

	attendancestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/attendance"
	offerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offers"
	redemptionstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/redemptions"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/metrics"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Redemptions *redemptionstore.Store
	Attendance  *attendancestore.Store
	Offers      *offerstore.Store
	Users       *userstore.Store
	Loc         *time.Location
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, loc *time.Location, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Redemptions: redemptionstore.New(db),
		Attendance:  attendancestore.New(db),
		Offers:      offerstore.New(db),
		Users:       userstore.New(db),
		Loc:         loc,
		Metrics:     m,
		Log:         logger,
	}
}

type redemptionView struct {
	models.MemberRedemption
	User    *models.UserSummary `json:"user,omitempty"`
	Creator *models.UserSummary `json:"creator,omitempty"`
}

func (h *Handler) populate(ctx context.Context, items []models.MemberRedemption) ([]redemptionView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(items))
	for _, m := range items {
		ids = append(ids, m.User, m.Creator)
	}
	users, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]redemptionView, 0, len(items))
	for _, m := range items {
		v := redemptionView{MemberRedemption: m}
		if u, ok := users[m.User]; ok {
			v.User = &u
		}
		if c, ok := users[m.Creator]; ok {
			v.Creator = &c
		}
		out = append(out, v)
	}
	return out, nil
}
