// internal/app/system/workers/notificationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	notificationstore "github.com/abdullahalnomandev/alpha-backend--n/internal/app/store/notifications"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// NotificationCleanup periodically deletes notifications that were seen
// longer than the retention ago.
type NotificationCleanup struct {
	store     *notificationstore.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewNotificationCleanup builds the worker; call Start to run it.
func NewNotificationCleanup(store *notificationstore.Store, logger *zap.Logger, interval, retention time.Duration) *NotificationCleanup {
	return &NotificationCleanup{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

func (w *NotificationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker and waits for an in-flight sweep to finish.
// Safe to call more than once.
func (w *NotificationCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("notification cleanup worker stopped")
	})
}

func (w *NotificationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep(context.Background())
		}
	}
}

// Sweep runs one cleanup pass and returns the number of deleted rows.
func (w *NotificationCleanup) Sweep(parent context.Context) int64 {
	ctx, cancel := timeouts.WithTimeout(parent, timeouts.Long(), w.log, "notification cleanup")
	defer cancel()

	n, err := w.store.DeleteSeenBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.log.Error("notification cleanup failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		w.log.Info("deleted old notifications", zap.Int64("count", n))
	}
	return n
}
