package worker

import (
	"context"
	"sync"
	"time"

	"github.com/profitbridge/platform-api/internal/observability"
	"github.com/profitbridge/platform-api/internal/service"
	"go.uber.org/zap"
)

// AccrualWorker credits daily earnings on active investments and completes
// matured ones. Safe for concurrent instances thanks to FOR UPDATE SKIP
// LOCKED on the claim query.
type AccrualWorker struct {
	svc       *service.AccrualService
	interval  time.Duration
	batchSize int32
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewAccrualWorker constructs a worker with a default daily interval.
func NewAccrualWorker(svc *service.AccrualService) *AccrualWorker {
	return &AccrualWorker{
		svc:       svc,
		interval:  24 * time.Hour,
		batchSize: 100,
		stopCh:    make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *AccrualWorker) WithInterval(interval time.Duration) *AccrualWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// WithBatchSize updates how many investments each pass claims.
func (w *AccrualWorker) WithBatchSize(size int32) *AccrualWorker {
	if size > 0 {
		w.batchSize = size
	}
	return w
}

// Start blocks and runs accrual passes at the configured interval.
func (w *AccrualWorker) Start(ctx context.Context) {
	zap.L().Info("accrual worker starting",
		zap.Duration("interval", w.interval), zap.Int32("batch", w.batchSize))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("accrual worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("accrual worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *AccrualWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *AccrualWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *AccrualWorker) runOnce(ctx context.Context) {
	// Drain until a pass claims fewer investments than the batch size, so a
	// backlog never waits a full interval.
	for {
		processed, err := w.svc.RunOnce(ctx, w.batchSize)
		if err != nil {
			observability.IncrementWorkerRun("accrual", "failed")
			zap.L().Error("accrual pass failed", zap.Error(err))
			return
		}
		observability.IncrementWorkerRun("accrual", "success")
		if processed < int(w.batchSize) {
			return
		}
	}
}
