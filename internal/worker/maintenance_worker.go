package worker

import (
	"context"
	"sync"
	"time"

	"github.com/profitbridge/platform-api/internal/observability"
	"github.com/profitbridge/platform-api/internal/service"
	"go.uber.org/zap"
)

// MaintenanceWorker deletes idempotency keys older than the retention TTL.
type MaintenanceWorker struct {
	store    service.Store
	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMaintenanceWorker(store service.Store, ttl time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		store:    store,
		ttl:      ttl,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the purge interval.
func (w *MaintenanceWorker) WithInterval(interval time.Duration) *MaintenanceWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and purges at the configured interval.
func (w *MaintenanceWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *MaintenanceWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *MaintenanceWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *MaintenanceWorker) runOnce(ctx context.Context) {
	purged, err := w.store.Repo().PurgeExpiredIdempotencyKeys(ctx, w.ttl)
	if err != nil {
		observability.IncrementWorkerRun("maintenance", "failed")
		zap.L().Error("idempotency purge failed", zap.Error(err))
		return
	}
	observability.IncrementWorkerRun("maintenance", "success")
	if purged > 0 {
		zap.L().Info("purged expired idempotency keys", zap.Int64("count", purged))
	}
}
