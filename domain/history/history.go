// Package history implements the linear undo log. Records are pushed by
// the board on every recordable mutation and consumed one at a time by
// Undo; there is no redo.
package history

// History is an append-only stack of undo records. It is not safe for
// concurrent use; callers serialize access.
type History struct {
	actions []Action
}

// New creates an empty history
func New() *History {
	return &History{}
}

// Push appends a record
func (h *History) Push(a Action) {
	if a == nil {
		return
	}
	h.actions = append(h.actions, a)
}

// Len returns the number of records
func (h *History) Len() int {
	return len(h.actions)
}

// IsEmpty reports whether there is nothing to undo
func (h *History) IsEmpty() bool {
	return len(h.actions) == 0
}

// Peek returns the most recent record without consuming it
func (h *History) Peek() (Action, bool) {
	if len(h.actions) == 0 {
		return nil, false
	}
	return h.actions[len(h.actions)-1], true
}

// Pop removes and returns the most recent record
func (h *History) Pop() (Action, bool) {
	if len(h.actions) == 0 {
		return nil, false
	}
	last := len(h.actions) - 1
	a := h.actions[last]
	h.actions[last] = nil
	h.actions = h.actions[:last]
	return a, true
}

// Kinds lists the record kinds oldest first
func (h *History) Kinds() []Kind {
	kinds := make([]Kind, len(h.actions))
	for i, a := range h.actions {
		kinds[i] = a.Kind()
	}
	return kinds
}

// Undo pops exactly one record and replays its inverse through t.
// The record is consumed even when its inverse finds nothing to change.
func (h *History) Undo(t Target) (Action, bool) {
	a, ok := h.Pop()
	if !ok {
		return nil, false
	}
	a.Invert(t)
	return a, true
}

// Recorder receives undo records from recordable mutations
type Recorder interface {
	Push(a Action)
}

// Discard drops every record; for boards driven without undo
var Discard Recorder = discard{}

type discard struct{}

func (discard) Push(Action) {}
