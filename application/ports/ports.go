package ports

import (
	"context"
	"time"

	"contrastboard/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler; CanHandle filters what it receives
	Subscribe(handler EventHandler)
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// EventLog keeps the most recent events of each board
type EventLog interface {
	EventHandler

	// Recent returns up to limit events for a board, oldest first
	Recent(boardID string, limit int) []events.DomainEvent

	// Forget drops a board's events
	Forget(boardID string)
}

// MetricsRecorder receives operational measurements
type MetricsRecorder interface {
	// RecordMutation counts a board operation; applied is false for
	// tolerated no-ops
	RecordMutation(operation string, applied bool)

	// RecordUndo counts a consumed undo record by kind
	RecordUndo(kind string)

	// RecordEvent counts a published domain event by type
	RecordEvent(eventType string)

	// SetBoardSize reports the current size of a board
	SetBoardSize(boardID string, nodes, connections, undoDepth int)

	// ObserveImport reports a bulk import
	ObserveImport(source string, added int, duration time.Duration)
}

// Clock abstracts the time source
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordMutation(string, bool)              {}
func (NopMetrics) RecordUndo(string)                        {}
func (NopMetrics) RecordEvent(string)                       {}
func (NopMetrics) SetBoardSize(string, int, int, int)       {}
func (NopMetrics) ObserveImport(string, int, time.Duration) {}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, events.DomainEvent) error        { return nil }
func (NopPublisher) PublishBatch(context.Context, []events.DomainEvent) error { return nil }
