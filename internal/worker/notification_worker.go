package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/donation-service/internal/config"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/service"
)

// ErrRelayQueueFull is returned by Enqueue when the relay is backed up.
var ErrRelayQueueFull = errors.New("event relay queue full")

// StartNotificationWorker registers event handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// RelayWorker forwards lifecycle events to an external relay outside the
// request path. Each publish gets its own deadline.
type RelayWorker struct {
	relay   events.EventHandler
	queue   chan events.Event
	timeout time.Duration
	logger  *zap.Logger
	done    chan struct{}
}

// NewRelayWorker builds a worker with a bounded queue. Call Run to start it.
func NewRelayWorker(relay events.EventHandler, buffer int, timeout time.Duration, logger *zap.Logger) *RelayWorker {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayWorker{
		relay:   relay,
		queue:   make(chan events.Event, buffer),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// StartRelayWorker runs a worker in the background until ctx is canceled.
func StartRelayWorker(ctx context.Context, relay events.EventHandler, cfg config.EventsConfig, logger *zap.Logger) *RelayWorker {
	w := NewRelayWorker(relay, cfg.RelayBuffer, cfg.RelayTimeout(), logger)
	go w.Run(ctx)
	return w
}

// Enqueue is an events.EventHandler that never blocks the publisher.
func (w *RelayWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		return ErrRelayQueueFull
	}
}

// Run publishes queued events until ctx is canceled, then flushes what is left.
func (w *RelayWorker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case event := <-w.queue:
			w.publish(event)
		}
	}
}

// Done is closed once Run has returned.
func (w *RelayWorker) Done() <-chan struct{} {
	return w.done
}

func (w *RelayWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.publish(event)
		default:
			return
		}
	}
}

func (w *RelayWorker) publish(event events.Event) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.relay(ctx, event); err != nil {
		w.logger.Warn("relay event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}
