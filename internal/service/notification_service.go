package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/donation-service/internal/events"
)

// NotificationService fans lifecycle events out to the log and to the relay.
type NotificationService struct {
	dispatcher events.Dispatcher
	relay      events.EventHandler
	logger     *zap.Logger
}

// NewNotificationService creates the service. relay may be nil when no
// broker is configured.
func NewNotificationService(dispatcher events.Dispatcher, relay events.EventHandler, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		relay:      relay,
		logger:     loggerOrNop(logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Debug("event",
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor", event.ActorEmail),
		zap.Any("payload", event.Payload))
	if n.relay == nil {
		return nil
	}
	return n.relay(ctx, event)
}
