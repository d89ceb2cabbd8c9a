package memory

import (
	"context"
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"contrastboard/application/ports"
	"contrastboard/application/services"
	"contrastboard/domain/core/aggregates"
	"contrastboard/pkg/errors"
)

// SessionRepository keeps open sessions in process memory. The default
// board is opened at construction and cannot be deleted.
type SessionRepository struct {
	mu        sync.RWMutex
	sessions  *orderedmap.OrderedMap[aggregates.BoardID, *services.Session]
	factory   *services.SessionFactory
	eventLog  ports.EventLog
	maxBoards int
	onDelete  []func(aggregates.BoardID)
	logger    *zap.Logger
}

// NewSessionRepository creates the repository with the default board open.
// maxBoards <= 0 means unbounded; eventLog may be nil.
func NewSessionRepository(
	factory *services.SessionFactory,
	eventLog ports.EventLog,
	maxBoards int,
	logger *zap.Logger,
) *SessionRepository {
	r := &SessionRepository{
		sessions:  orderedmap.New[aggregates.BoardID, *services.Session](),
		factory:   factory,
		eventLog:  eventLog,
		maxBoards: maxBoards,
		logger:    logger,
	}
	r.sessions.Set(aggregates.DefaultBoardID, factory.New(aggregates.DefaultBoardID))
	return r
}

// OnDelete registers a callback run after a board is closed
func (r *SessionRepository) OnDelete(fn func(aggregates.BoardID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = append(r.onDelete, fn)
}

// Get returns an open session
func (r *SessionRepository) Get(ctx context.Context, id aggregates.BoardID) (*services.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("board %s", id))
	}
	return session, nil
}

// Create opens a new empty session
func (r *SessionRepository) Create(ctx context.Context) (*services.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxBoards > 0 && r.sessions.Len() >= r.maxBoards {
		return nil, errors.NewConflictError(fmt.Sprintf("board limit of %d reached", r.maxBoards)).
			WithCode("BOARD_LIMIT")
	}

	id := aggregates.NewBoardID()
	session := r.factory.New(id)
	r.sessions.Set(id, session)
	r.logger.Debug("Session opened", zap.String("boardID", id.String()), zap.Int("open", r.sessions.Len()))
	return session, nil
}

// List returns every open session, oldest first
func (r *SessionRepository) List(ctx context.Context) ([]*services.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*services.Session, 0, r.sessions.Len())
	for pair := r.sessions.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out, nil
}

// Delete closes a session and forgets its event log
func (r *SessionRepository) Delete(ctx context.Context, id aggregates.BoardID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == aggregates.DefaultBoardID {
		return errors.NewConflictError("the default board cannot be deleted").WithCode("DEFAULT_BOARD")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions.Delete(id); !ok {
		return errors.NewNotFoundError(fmt.Sprintf("board %s", id))
	}
	if r.eventLog != nil {
		r.eventLog.Forget(id.String())
	}
	for _, fn := range r.onDelete {
		fn(id)
	}
	r.logger.Debug("Session closed", zap.String("boardID", id.String()), zap.Int("open", r.sessions.Len()))
	return nil
}
