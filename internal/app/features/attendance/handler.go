// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"time"

	attendancestore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/attendance"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/metrics"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultDailyLimit caps check-ins per club day when none is configured.
const DefaultDailyLimit = 50

// Handler serves the desk check-in endpoints. Days are counted in Loc.
type Handler struct {
	Attendance *attendancestore.Store
	Users      *userstore.Store
	DailyLimit int
	Loc        *time.Location
	Metrics    *metrics.Metrics
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, dailyLimit int, loc *time.Location, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Attendance: attendancestore.New(db),
		Users:      userstore.New(db),
		DailyLimit: dailyLimit,
		Loc:        loc,
		Metrics:    m,
		Log:        logger,
	}
}

// attendanceView is a check-in with its member and desk user populated.
type attendanceView struct {
	models.DailyAttendance
	User    *models.UserSummary `json:"user,omitempty"`
	Creator *models.UserSummary `json:"creator,omitempty"`
}

func (h *Handler) populate(ctx context.Context, items []models.DailyAttendance) ([]attendanceView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(items))
	for _, a := range items {
		ids = append(ids, a.User, a.Creator)
	}
	users, err := h.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]attendanceView, 0, len(items))
	for _, a := range items {
		v := attendanceView{DailyAttendance: a}
		if u, ok := users[a.User]; ok {
			v.User = &u
		}
		if c, ok := users[a.Creator]; ok {
			v.Creator = &c
		}
		out = append(out, v)
	}
	return out, nil
}
