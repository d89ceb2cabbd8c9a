package services

import (
	"context"

	"contrastboard/domain/core/aggregates"
)

// SessionRepository holds the open sessions of this process. Sessions are
// never persisted across restarts.
type SessionRepository interface {
	// Get returns an open session
	Get(ctx context.Context, id aggregates.BoardID) (*Session, error)

	// Create opens a new empty session under a fresh id
	Create(ctx context.Context) (*Session, error)

	// List returns every open session, oldest first
	List(ctx context.Context) ([]*Session, error)

	// Delete closes a session
	Delete(ctx context.Context, id aggregates.BoardID) error
}
