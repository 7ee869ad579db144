package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/fluxlane/fluxlane/pkg/channels/gochannel"
	"github.com/fluxlane/fluxlane/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_RunEventRoundTrip(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.RunStarted, 1)

	err := bus.Handle(events.RunStartedEvent, func(_ context.Context, event any) error {
		started, ok := event.(*events.RunStarted)
		if !ok {
			t.Errorf("unexpected event payload %T", event)

			return nil
		}

		received <- started

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	published := events.RunStarted{
		BaseEvent: events.BaseEvent{
			ID:         bus.GenerateID(),
			Type:       events.RunStartedEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: "wf-1",
			OfficeID:   "office-1",
			RunID:      "run-1",
		},
		Input: map[string]any{"customer": "acme"},
	}
	require.NoError(t, bus.Publish(ctx, "wf-1", published))

	select {
	case started := <-received:
		assert.Equal(t, "run-1", started.RunID)
		assert.Equal(t, "wf-1", started.WorkflowID)
		assert.Equal(t, events.RunStartedEvent, started.GetType())
		assert.Equal(t, "acme", started.Input["customer"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run started event")
	}
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.RunCompleted, 1)

	err := bus.Handle(events.RunCompletedEvent, func(_ context.Context, event any) error {
		if completed, ok := event.(*events.RunCompleted); ok {
			received <- completed
		}

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler for node events; they are acked and skipped without
	// blocking later deliveries.
	require.NoError(t, bus.Publish(ctx, "wf-1", events.NodeExecuted{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.NodeExecutedEvent, WorkflowID: "wf-1", RunID: "run-1"},
		NodeID:    "work",
	}))
	require.NoError(t, bus.Publish(ctx, "wf-1", events.RunCompleted{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.RunCompletedEvent, WorkflowID: "wf-1", RunID: "run-1"},
	}))

	select {
	case completed := <-received:
		assert.Equal(t, "run-1", completed.RunID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run completed event")
	}
}
