package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weftlabs/weft/internal/application/scheduler"
	eventsmemory "github.com/weftlabs/weft/pkg/adapters/events/memory"
	"github.com/weftlabs/weft/pkg/domain"
)

func TestSubscribeCoversPlanAndStepTopics(t *testing.T) {
	bus := eventsmemory.NewInMemoryEventBus()
	h := NewHandler(bus, zap.NewNop())

	ch := make(chan domain.Event, 10)
	subs := h.subscribe(context.Background(), ch)
	defer h.unsubscribe(subs)

	require.Len(t, subs, 2)

	require.NoError(t, bus.Publish(context.Background(), scheduler.TopicPlanEvents,
		domain.Event{ID: "p-1", Type: domain.EventTypePlanStarted}))
	require.NoError(t, bus.Publish(context.Background(), scheduler.TopicStepEvents,
		domain.Event{ID: "s-1", Type: domain.EventTypeStepStarted}))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			seen[ev.ID] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.True(t, seen["p-1"])
	assert.True(t, seen["s-1"])
}

func TestUnsubscribeDetachesConnectionHandlers(t *testing.T) {
	bus := eventsmemory.NewInMemoryEventBus()
	h := NewHandler(bus, zap.NewNop())

	ch := make(chan domain.Event, 10)
	subs := h.subscribe(context.Background(), ch)
	h.unsubscribe(subs)

	require.NoError(t, bus.Publish(context.Background(), scheduler.TopicPlanEvents,
		domain.Event{ID: "p-1", Type: domain.EventTypePlanStarted}))

	select {
	case <-ch:
		t.Fatal("handlers of a closed connection must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}
