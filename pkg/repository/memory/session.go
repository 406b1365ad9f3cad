package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
}

var _ interfaces.SessionRepository = &sessionRepository{}

// NewSessionRepository creates a session store living for the lifetime of
// the process
func NewSessionRepository() interfaces.SessionRepository {
	return &sessionRepository{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

func (r *sessionRepository) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "session not found", goerr.V(model.SessionIDKey, id))
	}
	return s.Clone(), nil
}

func (r *sessionRepository) Put(ctx context.Context, session *model.Session) error {
	if session == nil || session.ID == "" {
		return goerr.New("session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id model.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *sessionRepository) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions), nil
}
