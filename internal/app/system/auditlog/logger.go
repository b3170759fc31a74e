// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/audit"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB and zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config picks a destination per category.
type Config struct {
	Auth  string
	Admin string
}

// Logger writes audit events to the audit_events collection, the zap
// log, or both. A nil *Logger discards everything, which keeps handler
// tests free of audit setup.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// ValidMode reports whether m is one of the Mode constants.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Log records e according to the category's mode. Storage failures are
// logged, never returned: an audit write must not fail the request.
func (l *Logger) Log(ctx context.Context, e audit.Event) {
	if l == nil {
		return
	}
	mode := ModeAll
	switch e.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryAdmin:
		mode = l.config.Admin
	}
	if mode == ModeOff {
		return
	}
	if mode == ModeAll || mode == ModeLog {
		l.logToZap(e)
	}
	if mode == ModeAll || mode == ModeDB {
		if err := l.store.Log(ctx, e); err != nil {
			l.zapLog.Error("failed to store audit event", zap.Error(err), zap.String("event_type", e.EventType))
		}
	}
}

func (l *Logger) logToZap(e audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.Bool("success", e.Success),
		zap.String("ip", e.IP),
	}
	if e.UserID != nil {
		fields = append(fields, zap.String("user_id", e.UserID.Hex()))
	}
	if e.ActorID != nil {
		fields = append(fields, zap.String("actor_id", e.ActorID.Hex()))
	}
	if e.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", e.FailureReason))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if e.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func authEvent(r *http.Request, eventType string, user *primitive.ObjectID, success bool) audit.Event {
	return audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		UserID:    user,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- auth ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := authEvent(r, audit.EventLoginSuccess, &userID, true)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed records a rejected login. userID is nil when the email
// matched no account.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, userID *primitive.ObjectID, email, reason string) {
	e := authEvent(r, audit.EventLoginFailed, userID, false)
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := authEvent(r, audit.EventLoginRateLimited, nil, false)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventLogout, &userID, true))
}

func (l *Logger) EmailVerified(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventEmailVerified, &userID, true))
}

func (l *Logger) VerificationCodeFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID, reason string) {
	e := authEvent(r, audit.EventVerificationCodeFailed, &userID, false)
	e.FailureReason = reason
	l.Log(ctx, e)
}

// --- admin ---

func adminEvent(r *http.Request, eventType string, actor primitive.ObjectID, details map[string]string) audit.Event {
	return audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actor,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
}

func (l *Logger) PartnerRequestApproved(ctx context.Context, r *http.Request, actor, requestID primitive.ObjectID, email string) {
	l.Log(ctx, adminEvent(r, audit.EventPartnerRequestApproved, actor, map[string]string{
		"request_id": requestID.Hex(),
		"email":      email,
	}))
}

func (l *Logger) PartnerRequestRejected(ctx context.Context, r *http.Request, actor, requestID primitive.ObjectID, email string) {
	l.Log(ctx, adminEvent(r, audit.EventPartnerRequestRejected, actor, map[string]string{
		"request_id": requestID.Hex(),
		"email":      email,
	}))
}

// PartnerAccountCreated records the account made for an approved
// applicant; user is the new account.
func (l *Logger) PartnerAccountCreated(ctx context.Context, r *http.Request, actor, user primitive.ObjectID, email string) {
	e := adminEvent(r, audit.EventPartnerAccountCreated, actor, map[string]string{"email": email})
	e.UserID = &user
	l.Log(ctx, e)
}
