package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"contrastboard/application/ports"
	"contrastboard/domain/config"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/events"
	"contrastboard/domain/history"
	"contrastboard/domain/layout"
)

// Session is one interactive board: the graph store, its undo history and
// the transient interaction state (hover, draw order). Every method runs
// under the session lock, so concurrent callers observe a single logical
// thread of mutations.
type Session struct {
	mu        sync.Mutex
	board     *aggregates.Board
	history   *history.History
	hovered   valueobjects.NodeID
	order     *RenderOrder
	cfg       *config.DomainConfig
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
	clock     ports.Clock
	createdAt time.Time
}

// SessionFactory builds sessions sharing the same collaborators
type SessionFactory struct {
	cfg       *config.DomainConfig
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	clock     ports.Clock
	logger    *zap.Logger
}

// NewSessionFactory creates a session factory
func NewSessionFactory(
	cfg *config.DomainConfig,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	clock ports.Clock,
	logger *zap.Logger,
) *SessionFactory {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionFactory{cfg: cfg, publisher: publisher, metrics: metrics, clock: clock, logger: logger}
}

// Config returns the domain settings shared by every session
func (f *SessionFactory) Config() *config.DomainConfig {
	return f.cfg
}

// New creates an empty session for a board id
func (f *SessionFactory) New(id aggregates.BoardID, opts ...aggregates.BoardOption) *Session {
	h := history.New()
	opts = append([]aggregates.BoardOption{
		aggregates.WithRecorder(h),
		aggregates.WithClock(f.clock.Now),
	}, opts...)

	return &Session{
		board:     aggregates.NewBoard(id, f.cfg, opts...),
		history:   h,
		order:     NewRenderOrder(),
		cfg:       f.cfg,
		publisher: f.publisher,
		metrics:   f.metrics,
		logger:    f.logger.With(zap.String("boardID", id.String())),
		clock:     f.clock,
		createdAt: f.clock.Now(),
	}
}

// ID returns the board id
func (s *Session) ID() aggregates.BoardID {
	return s.board.ID()
}

// CreatedAt returns when the session was opened
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Config returns the domain settings
func (s *Session) Config() *config.DomainConfig {
	return s.cfg
}

// AddNode inserts a default node and records it
func (s *Session) AddNode(ctx context.Context) valueobjects.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.board.AddNode()
	s.order.Touch(id)
	s.afterMutation(ctx, "addNode", true)
	return id
}

// AddNodeWith inserts a node with explicit attributes
func (s *Session) AddNodeWith(ctx context.Context, spec aggregates.NodeSpec) (valueobjects.NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.board.AddNodeWith(spec)
	if ok {
		s.order.Touch(id)
	}
	s.afterMutation(ctx, "addNode", ok)
	return id, ok
}

// RemoveNode removes a node and its connections, recording the removal.
// Any hover state is dropped.
func (s *Session) RemoveNode(ctx context.Context, id valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.RemoveNode(id, true)
	if changed {
		s.hovered = valueobjects.NodeID{}
	}
	s.afterMutation(ctx, "removeNode", changed)
	return changed
}

// MoveNode repositions a node without recording
func (s *Session) MoveNode(ctx context.Context, id valueobjects.NodeID, position valueobjects.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.MoveNode(id, position)
	if s.board.HasNode(id) {
		s.order.Touch(id)
	}
	s.afterMutation(ctx, "moveNode", changed)
	return changed
}

// RenameNode changes a node title without recording
func (s *Session) RenameNode(ctx context.Context, id valueobjects.NodeID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.RenameNode(id, title)
	s.afterMutation(ctx, "renameNode", changed)
	return changed
}

// ChangeColor applies a color. With commit and an oldColor differing from
// color the change is recorded; otherwise it is a preview.
func (s *Session) ChangeColor(ctx context.Context, id valueobjects.NodeID, color string, commit bool, oldColor *string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.ChangeColor(id, color, commit, oldColor)
	s.afterMutation(ctx, "changeColor", changed)
	return changed
}

// RevertInvalidColor ends a hex edit, restoring the last valid color when
// the node shows a partial value
func (s *Session) RevertInvalidColor(ctx context.Context, id valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.RevertInvalidColor(id)
	s.afterMutation(ctx, "revertColor", changed)
	return changed
}

// AddConnection connects two nodes and records the connection
func (s *Session) AddConnection(ctx context.Context, fromID, toID valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.AddConnection(fromID, toID, true)
	s.afterMutation(ctx, "addConnection", changed)
	return changed
}

// RemoveConnection removes the connection joining two nodes, in either
// order, and records the removal
func (s *Session) RemoveConnection(ctx context.Context, a, b valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if conn, ok := s.board.FindConnection(a, b); ok {
		changed = s.board.RemoveConnection(&conn, true)
	}
	s.afterMutation(ctx, "removeConnection", changed)
	return changed
}

// ClearBoard removes everything with a single undo record
func (s *Session) ClearBoard(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.board.ClearBoard()
	s.afterMutation(ctx, "clearBoard", changed)
	return changed
}

// Undo consumes the most recent record
func (s *Session) Undo(ctx context.Context) (history.Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := s.history.Undo(s.board)
	if !ok {
		s.logger.Debug("Undo requested with empty history")
		s.afterMutation(ctx, "undo", false)
		return "", false
	}

	s.logger.Debug("Undo applied",
		zap.String("kind", string(action.Kind())),
		zap.Int("remaining", s.history.Len()),
	)
	s.metrics.RecordUndo(string(action.Kind()))
	s.afterMutation(ctx, "undo", true)
	s.publish(ctx, []events.DomainEvent{
		events.NewActionUndone(s.board.ID().String(), s.board.Version(), string(action.Kind()), s.history.Len(), s.clock.Now()),
	})
	return action.Kind(), true
}

// SetHover marks a node as hovered; an unknown id is ignored
func (s *Session) SetHover(id valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.board.HasNode(id) {
		return false
	}
	s.hovered = id
	return true
}

// ClearHover drops the hover state
func (s *Session) ClearHover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hovered = valueobjects.NodeID{}
}

// Hovered returns the hovered node, if any
func (s *Session) Hovered() (valueobjects.NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hovered, !s.hovered.IsZero()
}

// Touch brings a node to the front of the draw order
func (s *Session) Touch(id valueobjects.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.HasNode(id) {
		s.order.Touch(id)
	}
}

// Relayout places every node on the circular layout for the viewport.
// Positions are not undo-tracked.
func (s *Session) Relayout(ctx context.Context, vp layout.Viewport) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := layout.Circular(s.board.NodeIDs(), s.board.Connections(), vp)
	moved := 0
	for _, id := range s.board.NodeIDs() {
		if s.board.MoveNode(id, positions[id]) {
			moved++
		}
	}
	s.afterMutation(ctx, "relayout", moved > 0)
	return moved
}

// Atomically runs fn against the board as one uninterrupted sequence.
// fn reports whether it changed anything.
func (s *Session) Atomically(ctx context.Context, operation string, fn func(b *aggregates.Board) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(s.board)
	s.afterMutation(ctx, operation, changed)
	return changed
}

// Snapshot is a consistent copy of a session's observable state
type Snapshot struct {
	BoardID     aggregates.BoardID
	Version     int
	Nodes       []entities.NodeSnapshot
	Connections []entities.Connection
	UndoKinds   []history.Kind
	Hovered     valueobjects.NodeID
	// DrawOrder lists node ids back to front
	DrawOrder []valueobjects.NodeID
}

// Snapshot copies the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		BoardID:     s.board.ID(),
		Version:     s.board.Version(),
		Nodes:       s.board.Nodes(),
		Connections: s.board.Connections(),
		UndoKinds:   s.history.Kinds(),
		Hovered:     s.hovered,
		DrawOrder:   s.order.Sort(s.board.NodeIDs()),
	}
}

// Node returns one node's state
func (s *Session) Node(id valueobjects.NodeID) (entities.NodeSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.board.Node(id)
}

// Version returns the board version, bumped by every observable mutation
func (s *Session) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.board.Version()
}

// UndoDepth returns the number of undo records
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Len()
}

// Validate checks the board's referential consistency
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.board.Validate()
}

// afterMutation publishes pending events and prunes interaction state
// that references removed nodes. Callers hold the lock.
func (s *Session) afterMutation(ctx context.Context, operation string, changed bool) {
	s.metrics.RecordMutation(operation, changed)
	if !changed {
		s.logger.Debug("Operation had no effect", zap.String("operation", operation))
	}

	if !s.hovered.IsZero() && !s.board.HasNode(s.hovered) {
		s.hovered = valueobjects.NodeID{}
	}
	s.order.Retain(s.board.HasNode)

	pending := s.board.GetUncommittedEvents()
	s.board.MarkEventsAsCommitted()
	s.publish(ctx, pending)

	s.metrics.SetBoardSize(s.board.ID().String(), s.board.NodeCount(), s.board.ConnectionCount(), s.history.Len())
}

func (s *Session) publish(ctx context.Context, pending []events.DomainEvent) {
	if len(pending) == 0 {
		return
	}
	for _, e := range pending {
		s.metrics.RecordEvent(e.GetEventType())
		s.logger.Debug("Board event",
			zap.String("type", e.GetEventType()),
			zap.Int("version", e.GetVersion()),
		)
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish board events", zap.Error(err), zap.Int("count", len(pending)))
	}
}

// RenderOrder tracks when each node was last interacted with. It only
// decides draw order and never takes part in board equality.
type RenderOrder struct {
	seq     uint64
	touched map[valueobjects.NodeID]uint64
}

// NewRenderOrder creates an empty tracker
func NewRenderOrder() *RenderOrder {
	return &RenderOrder{touched: make(map[valueobjects.NodeID]uint64)}
}

// Touch marks id as the most recently interacted node
func (o *RenderOrder) Touch(id valueobjects.NodeID) {
	o.seq++
	o.touched[id] = o.seq
}

// Rank returns the node's interaction stamp; zero means never touched
func (o *RenderOrder) Rank(id valueobjects.NodeID) uint64 {
	return o.touched[id]
}

// Retain forgets nodes for which keep returns false
func (o *RenderOrder) Retain(keep func(valueobjects.NodeID) bool) {
	for id := range o.touched {
		if !keep(id) {
			delete(o.touched, id)
		}
	}
}

// Sort orders ids back to front: untouched nodes first in their given
// order, then by interaction stamp
func (o *RenderOrder) Sort(ids []valueobjects.NodeID) []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		return o.touched[out[i]] < o.touched[out[j]]
	})
	return out
}
