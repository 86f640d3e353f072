package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherEmitAndList(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	err := publisher.Emit(ctx, Event{
		ClientID: "client-1",
		Action:   ActionClientCreated,
	})
	require.NoError(t, err)
	err = publisher.Emit(ctx, Event{
		ClientID: "client-1",
		Action:   ActionSectionUpdated,
		Section:  "underwriting",
	})
	require.NoError(t, err)
	err = publisher.Emit(ctx, Event{
		ClientID: "client-2",
		Action:   ActionClientCreated,
	})
	require.NoError(t, err)

	events, err := publisher.List(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionClientCreated, events[0].Action)
	assert.Equal(t, "underwriting", events[1].Section)
	assert.False(t, events[0].Timestamp.IsZero(), "zero timestamps are filled on emit")

	none, err := publisher.List(ctx, "client-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPublisherKeepsExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	ts := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Emit(ctx, Event{ClientID: "c", Action: ActionBulkUpdated, Timestamp: ts}))

	events, err := publisher.List(ctx, "c")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(ts))
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)

	require.NoError(t, sink.Emit(context.Background(), Event{Action: ActionClientCreated}))
	// Buffer is full; the second emit must not block.
	require.NoError(t, sink.Emit(context.Background(), Event{Action: ActionSectionUpdated}))

	select {
	case event := <-sink.Inbox():
		assert.Equal(t, ActionClientCreated, event.Action)
	default:
		t.Fatal("expected one buffered event")
	}
	select {
	case <-sink.Inbox():
		t.Fatal("overflow event should have been dropped")
	default:
	}
}

func TestWorkerPersistsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewInMemoryStore()
	sink := NewChannelSink(8)
	worker := NewWorker(store, sink.Inbox())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	require.NoError(t, sink.Emit(ctx, Event{ClientID: "client-1", Action: ActionClientCreated}))
	require.NoError(t, sink.Emit(ctx, Event{ClientID: "client-1", Action: ActionClientDeactivated}))

	require.Eventually(t, func() bool {
		events, err := store.ListByClient(ctx, "client-1")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
