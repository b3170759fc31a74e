// internal/app/features/login/handler.go
package login

import (
	"context"
	"fmt"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/emailverify"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/ratelimit"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users       *userstore.Store
	EmailVerify *emailverify.Store
	SessionMgr  *auth.SessionManager
	Mailer      mailer.Sender
	Limiter     *ratelimit.LoginLimiter
	Audit       *auditlog.Logger
	SiteName    string
	Log         *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	mail mailer.Sender,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	siteName string,
	emailVerifyExpiry time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		EmailVerify: emailverify.New(db, emailVerifyExpiry),
		SessionMgr:  sessionMgr,
		Mailer:      mail,
		Limiter:     limiter,
		Audit:       audit,
		SiteName:    siteName,
		Log:         logger,
	}
}

// SendCode issues a fresh one-time code for u and emails it. resend marks
// the request as a resend so the per-window cap applies.
func SendCode(ctx context.Context, ev *emailverify.Store, m mailer.Sender, siteName string, u *models.User, resend bool) error {
	res, err := ev.Create(ctx, u.ID, u.Email, resend)
	if err != nil {
		return err
	}
	msg := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  siteName,
		Name:      u.Name,
		Code:      res.Code,
		ExpiresIn: formatExpiryDuration(ev.Expiry()),
	})
	msg.To = u.Email
	return m.Send(ctx, msg)
}

// formatExpiryDuration renders d as "3 minutes" or "1 hour".
func formatExpiryDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
