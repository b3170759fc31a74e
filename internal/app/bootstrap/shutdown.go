// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Background collects components with goroutines of their own (rate
// limiter sweepers, the notification cleanup worker) so Shutdown can
// stop them.
type Background struct {
	mu    sync.Mutex
	stops []func()
}

// Add registers stop to run at shutdown.
func (b *Background) Add(stop func()) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.stops = append(b.stops, stop)
	b.mu.Unlock()
}

// StopAll runs the registered stops in reverse order, once.
func (b *Background) StopAll() {
	if b == nil {
		return
	}
	b.mu.Lock()
	stops := b.stops
	b.stops = nil
	b.mu.Unlock()
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}

// Shutdown stops background work, then disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	deps.Background.StopAll()

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
