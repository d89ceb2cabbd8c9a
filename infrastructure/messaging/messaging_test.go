package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/events"
)

func added(board string, version int) events.DomainEvent {
	return events.NewNodeAdded(board, version, valueobjects.NewSequentialNodeID(version), "#FFFFFF", true, time.Unix(0, 0))
}

func versions(evts []events.DomainEvent) []int {
	out := make([]int, len(evts))
	for i, e := range evts {
		out[i] = e.GetVersion()
	}
	return out
}

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	var got []string
	bus.Subscribe(HandlerFunc{Fn: func(_ context.Context, e events.DomainEvent) error {
		got = append(got, e.GetEventType())
		return nil
	}})
	var cleared int
	bus.Subscribe(HandlerFunc{Types: []string{events.TypeBoardCleared}, Fn: func(context.Context, events.DomainEvent) error {
		cleared++
		return nil
	}})

	require.NoError(t, bus.PublishBatch(context.Background(), []events.DomainEvent{
		added("b", 1),
		events.NewBoardCleared("b", 2, 1, 0, time.Unix(0, 0)),
	}))
	assert.Equal(t, []string{events.TypeNodeAdded, events.TypeBoardCleared}, got)
	assert.Equal(t, 1, cleared)
}

func TestEventBusContinuesPastFailures(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	boom := errors.New("boom")
	bus.Subscribe(HandlerFunc{Fn: func(context.Context, events.DomainEvent) error { return boom }})
	delivered := 0
	bus.Subscribe(HandlerFunc{Fn: func(context.Context, events.DomainEvent) error {
		delivered++
		return nil
	}})

	err := bus.Publish(context.Background(), added("b", 1))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, delivered)
}

func TestEventLogRing(t *testing.T) {
	log := NewEventLog(3)
	ctx := context.Background()
	for v := 1; v <= 5; v++ {
		require.NoError(t, log.Handle(ctx, added("a", v)))
	}
	require.NoError(t, log.Handle(ctx, added("b", 1)))

	assert.Equal(t, []int{3, 4, 5}, versions(log.Recent("a", 0)))
	assert.Equal(t, []int{4, 5}, versions(log.Recent("a", 2)))
	assert.Equal(t, []int{1}, versions(log.Recent("b", 10)))
	assert.Empty(t, log.Recent("missing", 0))

	log.Forget("a")
	assert.Empty(t, log.Recent("a", 0))
}
