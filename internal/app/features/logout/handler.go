// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
	}
}

// HandleLogout handles POST /auth/logout. It always answers 200; a session
// that fails to decode is simply replaced by an expired cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user logged out", zap.String("user_id", u.ID))
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			h.Audit.Logout(r.Context(), r, id)
		}
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	apiresp.OK(w, "User logged out successfully", nil)
}
