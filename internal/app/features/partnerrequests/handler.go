// internal/app/features/partnerrequests/handler.go
package partnerrequests

import (
	"errors"
	"net/http"
	"strings"

	notificationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/notifications"
	partnerstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/partnerrequests"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ReviewPath is where admins review applications in the dashboard.
const ReviewPath = "/admin/membership-applications"

// Handler serves partnership applications. Approving one provisions the
// partner's account.
type Handler struct {
	Requests      *partnerstore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Mailer        mailer.Sender
	Audit         *auditlog.Logger
	SiteName      string
	BaseURL       string
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, mail mailer.Sender, audit *auditlog.Logger, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Requests:      partnerstore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Mailer:        mail,
		Audit:         audit,
		SiteName:      siteName,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Log:           logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, partnerstore.ErrNotFound):
		apiresp.Error(w, r, h.Log, apierr.NotFound("Partner request not found"))
	case errors.Is(err, partnerstore.ErrInvalidStatus):
		apiresp.Error(w, r, h.Log, apierr.BadRequest(`Partnership status must be "pending", "active" or "rejected"`))
	default:
		apiresp.Error(w, r, h.Log, err)
	}
}
