package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/service"
	"github.com/spec-kit/donation-service/internal/worker"
)

type relayRecorder struct {
	mu   sync.Mutex
	ids  []string
	errs []error
}

func (r *relayRecorder) record(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	r.errs = append(r.errs, err)
}

func (r *relayRecorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.ids...), append([]error{}, r.errs...)
}

func TestRelayWorkerDoesNotBlockPublisher(t *testing.T) {
	rec := &relayRecorder{}
	stuck := func(ctx context.Context, e events.Event) error {
		<-ctx.Done()
		rec.record(e.EntityID, ctx.Err())
		return ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewRelayWorker(stuck, 4, 200*time.Millisecond, nil)
	go w.Run(ctx)

	start := time.Now()
	require.NoError(t, w.Enqueue(context.Background(), events.Event{EntityID: "r1"}))
	require.Less(t, time.Since(start), 100*time.Millisecond)

	require.Eventually(t, func() bool {
		ids, _ := rec.snapshot()
		return len(ids) == 1
	}, time.Second, 5*time.Millisecond)
	_, errs := rec.snapshot()
	require.ErrorIs(t, errs[0], context.DeadlineExceeded)

	cancel()
	<-w.Done()
}

func TestRelayWorkerQueueFull(t *testing.T) {
	w := worker.NewRelayWorker(func(context.Context, events.Event) error { return nil }, 1, time.Second, nil)

	require.NoError(t, w.Enqueue(context.Background(), events.Event{EntityID: "a"}))
	require.ErrorIs(t, w.Enqueue(context.Background(), events.Event{EntityID: "b"}), worker.ErrRelayQueueFull)
}

func TestRelayWorkerFlushesOnShutdown(t *testing.T) {
	rec := &relayRecorder{}
	w := worker.NewRelayWorker(func(_ context.Context, e events.Event) error {
		rec.record(e.EntityID, nil)
		return nil
	}, 8, time.Second, nil)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, w.Enqueue(context.Background(), events.Event{EntityID: id}))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	ids, _ := rec.snapshot()
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestNotificationServiceFeedsRelayWorker(t *testing.T) {
	rec := &relayRecorder{}
	w := worker.NewRelayWorker(func(_ context.Context, e events.Event) error {
		rec.record(e.EntityID, nil)
		return nil
	}, 8, time.Second, nil)
	dispatcher := events.NewInMemoryDispatcher(nil)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, w.Enqueue, nil))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventFundingRecorded, EntityID: "f1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)
	ids, _ := rec.snapshot()
	require.Equal(t, []string{"f1"}, ids)
}
