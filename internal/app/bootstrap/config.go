// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys are read from config files, ALPHACLUB_* environment
// variables and --flags, in increasing precedence.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "alphaclub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "alphaclub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank logs mail instead of sending)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@alphaclub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Alpha Club", Desc: "From display name"},

	{Name: "site_name", Default: "Alpha Club", Desc: "Club name used in emails"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Frontend base URL for email links"},
	{Name: "cors_allowed_origins", Default: "http://localhost:3000", Desc: "Comma-separated CORS origins"},

	{Name: "email_verify_expiry", Default: "3m", Desc: "Email verification code expiry (e.g. 3m, 10m)"},
	{Name: "club_timezone", Default: "UTC", Desc: "IANA time zone where club days begin"},
	{Name: "attendance_daily_limit", Default: 50, Desc: "Check-ins allowed per club day"},

	{Name: "partner_request_limit", Default: 5, Desc: "Public partnership applications per IP per window"},
	{Name: "partner_request_window", Default: "1h", Desc: "Window for partner_request_limit"},

	{Name: "notification_retention", Default: "720h", Desc: "Delete seen notifications older than this"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "superadmin_name", Default: "Super Admin", Desc: "Name of the seeded superadmin"},
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin created on startup (blank skips)"},
	{Name: "superadmin_password", Default: "", Desc: "Password for a newly created superadmin"},
}

// LoadConfig loads WAFFLE core config and the app keys above.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, v, err := config.LoadWithAppConfig(logger, "ALPHACLUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         v.String("mongo_uri"),
		MongoDatabase:    v.String("mongo_database"),
		MongoMaxPoolSize: uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.Int("mongo_min_pool_size")),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 30*24*time.Hour),

		MailSMTPHost: v.String("mail_smtp_host"),
		MailSMTPPort: v.Int("mail_smtp_port"),
		MailSMTPUser: v.String("mail_smtp_user"),
		MailSMTPPass: v.String("mail_smtp_pass"),
		MailFrom:     v.String("mail_from"),
		MailFromName: v.String("mail_from_name"),

		SiteName:           v.String("site_name"),
		BaseURL:            strings.TrimRight(v.String("base_url"), "/"),
		CORSAllowedOrigins: splitList(v.String("cors_allowed_origins")),

		EmailVerifyExpiry:    v.Duration("email_verify_expiry", 3*time.Minute),
		ClubTimezone:         v.String("club_timezone"),
		AttendanceDailyLimit: v.Int("attendance_daily_limit"),

		PartnerRequestLimit:  v.Int("partner_request_limit"),
		PartnerRequestWindow: v.Duration("partner_request_window", time.Hour),

		NotificationRetention: v.Duration("notification_retention", 30*24*time.Hour),

		AuditLogAuth:  v.String("audit_log_auth"),
		AuditLogAdmin: v.String("audit_log_admin"),

		SuperAdminName:     v.String("superadmin_name"),
		SuperAdminEmail:    v.String("superadmin_email"),
		SuperAdminPassword: v.String("superadmin_password"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that would fail later or run
// unsafely: a malformed Mongo URI, an unknown club time zone, a
// non-positive attendance limit, or the dev session key in prod.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if !timezones.Valid(appCfg.ClubTimezone) {
		return fmt.Errorf("club_timezone %q is not a known IANA time zone", appCfg.ClubTimezone)
	}
	if appCfg.AttendanceDailyLimit < 1 {
		return errors.New("attendance_daily_limit must be at least 1")
	}
	if appCfg.PartnerRequestLimit < 1 {
		return errors.New("partner_request_limit must be at least 1")
	}
	for key, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, mode)
		}
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return errors.New("session_key must be set to a strong value (32+ chars) in prod")
		}
		if appCfg.SuperAdminEmail != "" && appCfg.SuperAdminPassword == "" {
			logger.Warn("superadmin_email set without superadmin_password; the account will have no password")
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
