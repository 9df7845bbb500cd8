package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donation-service/internal/events"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)

	var got []events.Event
	dispatcher.Subscribe(events.EventFundingRecorded, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	dispatcher.Subscribe(events.EventFundingRecorded, func(context.Context, events.Event) error {
		return errors.New("relay down")
	})

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventFundingRecorded, EntityID: "f1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "f1", got[0].EntityID)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserRoleChanged}))
	require.Len(t, got, 1)
}

func TestNewRedisPublisherNilClient(t *testing.T) {
	require.Nil(t, events.NewRedisPublisher(nil, "donation-events"))
}
