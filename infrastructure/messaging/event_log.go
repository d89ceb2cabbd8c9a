package messaging

import (
	"context"
	"sync"

	"contrastboard/application/ports"
	"contrastboard/domain/events"
)

// DefaultEventLogCapacity is how many events each board retains
const DefaultEventLogCapacity = 200

// EventLog retains the most recent events of every board in a fixed-size
// ring per board
type EventLog struct {
	mu       sync.RWMutex
	capacity int
	boards   map[string]*ring
}

var _ ports.EventLog = (*EventLog)(nil)

type ring struct {
	buf   []events.DomainEvent
	next  int
	count int
}

// NewEventLog creates an event log; capacity <= 0 uses the default
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventLogCapacity
	}
	return &EventLog{capacity: capacity, boards: make(map[string]*ring)}
}

// CanHandle accepts every event
func (l *EventLog) CanHandle(string) bool { return true }

// Handle appends an event, evicting the oldest when the ring is full
func (l *EventLog) Handle(_ context.Context, event events.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.boards[event.GetAggregateID()]
	if !ok {
		r = &ring{buf: make([]events.DomainEvent, l.capacity)}
		l.boards[event.GetAggregateID()] = r
	}
	r.buf[r.next] = event
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	return nil
}

// Recent returns up to limit of a board's latest events, oldest first;
// limit <= 0 returns everything retained
func (l *EventLog) Recent(boardID string, limit int) []events.DomainEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.boards[boardID]
	if !ok {
		return []events.DomainEvent{}
	}
	n := r.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]events.DomainEvent, n)
	start := r.next - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Forget drops a board's events
func (l *EventLog) Forget(boardID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.boards, boardID)
}
