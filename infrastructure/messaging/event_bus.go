package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"contrastboard/application/ports"
	"contrastboard/domain/events"
)

// EventBus delivers board events to in-process subscribers, synchronously
// and in publish order. A failing subscriber does not stop delivery to the
// others; its error is returned to the publisher.
type EventBus struct {
	handlers []ports.EventHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

var _ ports.EventBus = (*EventBus)(nil)

// NewEventBus creates an event bus with no subscribers
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{logger: logger}
}

// Subscribe registers a handler
func (b *EventBus) Subscribe(handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
}

// Publish delivers one event
func (b *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch delivers events in order
func (b *EventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	var errs []error
	for _, event := range batch {
		for i, h := range handlers {
			if !h.CanHandle(event.GetEventType()) {
				continue
			}
			if err := h.Handle(ctx, event); err != nil {
				b.logger.Warn("Event handler failed",
					zap.Int("handler", i),
					zap.String("type", event.GetEventType()),
					zap.Error(err),
				)
				errs = append(errs, fmt.Errorf("handler %d on %s: %w", i, event.GetEventType(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// HandlerFunc adapts a function into a subscriber for the listed event
// types; no types means every event
type HandlerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event events.DomainEvent) error
}

// Handle implements ports.EventHandler
func (f HandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return f.Fn(ctx, event)
}

// CanHandle implements ports.EventHandler
func (f HandlerFunc) CanHandle(eventType string) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
