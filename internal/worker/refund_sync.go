package worker

import (
	"context"
	"log/slog"
	"time"
)

// RefundSyncer settles refunds the connector accepted but has not finished.
type RefundSyncer interface {
	SyncPending(ctx context.Context, limit int) (int, error)
}

// RefundSyncWorker polls connectors for pending refunds on a fixed interval.
type RefundSyncWorker struct {
	refunds   RefundSyncer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewRefundSyncWorker(refunds RefundSyncer, interval time.Duration, batchSize int, logger *slog.Logger) *RefundSyncWorker {
	return &RefundSyncWorker{
		refunds:   refunds,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start blocks until ctx is cancelled.
func (w *RefundSyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("refund sync worker started", "interval", w.interval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("refund sync worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single sync cycle.
func (w *RefundSyncWorker) RunOnce(ctx context.Context) {
	start := time.Now()
	synced, err := w.refunds.SyncPending(ctx, w.batchSize)
	if err != nil {
		w.logger.ErrorContext(ctx, "refund sync cycle failed", "synced", synced, "error", err)
		return
	}
	if synced > 0 {
		w.logger.InfoContext(ctx, "synced pending refunds",
			"count", synced,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
