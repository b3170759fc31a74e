// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration loaded in LoadConfig.
// WAFFLE's CoreConfig covers ports, TLS, logging and request limits;
// everything about the club backend itself lives here.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Cookie sessions
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// SMTP. A blank host logs mail instead of sending it.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	SiteName string
	BaseURL  string // used for links in outgoing mail

	CORSAllowedOrigins []string

	EmailVerifyExpiry    time.Duration
	ClubTimezone         string // IANA name; days and months are counted here
	AttendanceDailyLimit int

	PartnerRequestLimit  int // public applications per client IP per window
	PartnerRequestWindow time.Duration

	NotificationRetention time.Duration // seen notifications older than this are deleted

	// Audit destinations: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string

	SuperAdminName     string
	SuperAdminEmail    string
	SuperAdminPassword string
}
