// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	notificationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/notifications"
	userstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/users"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const notificationCleanupInterval = time.Hour

// Startup runs after the schema is in place and before the handler is
// built: timeout overrides, the superadmin seed and background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	if err := ensureSuperAdmin(ctx, deps, appCfg, logger); err != nil {
		return err
	}

	cleanup := workers.NewNotificationCleanup(notificationstore.New(deps.MongoDatabase), logger,
		notificationCleanupInterval, appCfg.NotificationRetention)
	cleanup.Start()
	deps.Background.Add(cleanup.Stop)
	return nil
}

// ensureSuperAdmin creates the configured superadmin when no user has
// that email. An existing user is left untouched.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	created, err := userstore.New(deps.MongoDatabase).EnsureSuperAdmin(ctx,
		appCfg.SuperAdminName, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword)
	if err != nil {
		logger.Error("ensure superadmin failed", zap.Error(err))
		return err
	}
	if created {
		logger.Info("created superadmin", zap.String("email", appCfg.SuperAdminEmail))
	}
	return nil
}
