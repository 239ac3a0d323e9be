package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []EventType
	dispatcher.Subscribe(EventUserRegistered, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	dispatcher.Subscribe(EventUserRegistered, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventUserRegistered, Subject: "alice"}))
	require.Len(t, seen, 2)

	// unrelated events do not reach the subscriber
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventLoginDenied, Subject: "alice"}))
	require.Len(t, seen, 2)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventLoginDenied, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventLoginDenied, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventLoginDenied}))
	require.True(t, called)
}
