// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	attendancefeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/attendance"
	auditlogfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/auditlog"
	eventregistrationsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/eventregistrations"
	eventsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/events"
	healthfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/health"
	loginfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/login"
	logoutfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/logout"
	membershipsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/memberships"
	notificationsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/notifications"
	offersfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/offers"
	partnerrequestsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/partnerrequests"
	redemptionsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/redemptions"
	sponsorsfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/sponsors"
	storiesfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/stories"
	usersfeature "github.com/abdullahalnomandev/alpha-backend--n/internal/app/features/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/audit"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apierr"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/apiresp"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auditlog"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/auth"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/metrics"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/ratelimit"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler assembles the router: global middleware, /health,
// /metrics and every feature under /api/v1.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on each request, so role changes apply immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	loc, err := timezones.Resolve(appCfg.ClubTimezone)
	if err != nil {
		return nil, err
	}

	var mail mailer.Sender = mailer.LogSender{Log: logger}
	if appCfg.MailSMTPHost != "" {
		mail = mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
	} else {
		logger.Warn("mail_smtp_host not set; outgoing mail will only be logged")
	}

	m := metrics.New()

	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	loginLimiter := ratelimit.NewLoginLimiter()
	deps.Background.Add(loginLimiter.Stop)
	applyLimiter := ratelimit.New(appCfg.PartnerRequestLimit, appCfg.PartnerRequestWindow)
	deps.Background.Add(applyLimiter.Stop)

	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(m.Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, auditLog, logger)))
		api.Mount("/auth", loginfeature.Routes(loginfeature.NewHandler(db, sessionMgr, mail, loginLimiter, auditLog,
			appCfg.SiteName, appCfg.EmailVerifyExpiry, logger)))

		api.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(db, mail, appCfg.SiteName,
			appCfg.EmailVerifyExpiry, loc, logger), sessionMgr))
		api.Mount("/membership-applications", membershipsfeature.Routes(membershipsfeature.NewHandler(db, logger), sessionMgr))

		api.Mount("/daily-attendance", attendancefeature.Routes(attendancefeature.NewHandler(db,
			appCfg.AttendanceDailyLimit, loc, m, logger), sessionMgr))
		api.Mount("/member-redemption", redemptionsfeature.Routes(redemptionsfeature.NewHandler(db, loc, m, logger), sessionMgr))

		api.Mount("/events", eventsfeature.Routes(eventsfeature.NewHandler(db, logger), sessionMgr))
		api.Mount("/event-registrations", eventregistrationsfeature.Routes(eventregistrationsfeature.NewHandler(db, logger), sessionMgr))
		api.Mount("/exclusive-offers", offersfeature.Routes(offersfeature.NewHandler(db, logger), sessionMgr))

		api.Mount("/partner-requests", partnerrequestsfeature.Routes(partnerrequestsfeature.NewHandler(db, mail, auditLog,
			appCfg.SiteName, appCfg.BaseURL, logger), sessionMgr, applyLimiter))

		api.Mount("/sponsors", sponsorsfeature.Routes(sponsorsfeature.NewHandler(db, logger), sessionMgr))
		api.Mount("/stories", storiesfeature.Routes(storiesfeature.NewHandler(db, logger), sessionMgr))
		api.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(db, logger), sessionMgr))
		api.Mount("/audit-events", auditlogfeature.Routes(auditlogfeature.NewHandler(db, logger), sessionMgr))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiresp.Error(w, r, logger, apierr.NotFound("API not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiresp.Error(w, r, logger, apierr.New(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	return r, nil
}
