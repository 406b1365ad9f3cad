package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// SessionRepository keeps pipeline sessions for the lifetime of the process
type SessionRepository interface {
	// Get returns a copy of the session, or model.ErrSessionNotFound
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)

	// Put stores a copy of the session, replacing any previous version
	Put(ctx context.Context, session *model.Session) error

	// Delete removes the session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id model.SessionID) error

	// DeleteIdle removes sessions not updated since the given time and
	// returns how many were removed
	DeleteIdle(ctx context.Context, before time.Time) (int, error)

	// Count returns the number of stored sessions
	Count(ctx context.Context) (int, error)
}
