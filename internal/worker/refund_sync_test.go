package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/worker"
	"github.com/stretchr/testify/assert"
)

type recordingSyncer struct {
	mu     sync.Mutex
	limits []int
	err    error
}

func (s *recordingSyncer) SyncPending(ctx context.Context, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = append(s.limits, limit)
	return 1, s.err
}

func (s *recordingSyncer) calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.limits...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefundSyncWorker_RunOnceUsesBatchSize(t *testing.T) {
	syncer := &recordingSyncer{}
	w := worker.NewRefundSyncWorker(syncer, time.Minute, 25, discardLogger())

	w.RunOnce(context.Background())

	assert.Equal(t, []int{25}, syncer.calls())
}

func TestRefundSyncWorker_SurvivesFailedCycle(t *testing.T) {
	syncer := &recordingSyncer{err: errors.New("database unavailable")}
	w := worker.NewRefundSyncWorker(syncer, time.Minute, 10, discardLogger())

	w.RunOnce(context.Background())
	w.RunOnce(context.Background())

	assert.Len(t, syncer.calls(), 2)
}

func TestRefundSyncWorker_TicksUntilCancelled(t *testing.T) {
	syncer := &recordingSyncer{}
	w := worker.NewRefundSyncWorker(syncer, 10*time.Millisecond, 5, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(syncer.calls()) >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
