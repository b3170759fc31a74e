// internal/app/features/users/handler.go
package users

import (
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/emailverify"
	eventstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/events"
	offerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/offers"
	storystore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/stories"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves sign-up, profile and user listing endpoints.
type Handler struct {
	Users       *userstore.Store
	Events      *eventstore.Store
	Offers      *offerstore.Store
	Stories     *storystore.Store
	EmailVerify *emailverify.Store
	Mailer      mailer.Sender
	SiteName    string
	Loc         *time.Location // club timezone for monthly statistics
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, mail mailer.Sender, siteName string, emailVerifyExpiry time.Duration, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Users:       userstore.New(db),
		Events:      eventstore.New(db),
		Offers:      offerstore.New(db),
		Stories:     storystore.New(db),
		EmailVerify: emailverify.New(db, emailVerifyExpiry),
		Mailer:      mail,
		SiteName:    siteName,
		Loc:         loc,
		Log:         logger,
	}
}
