package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/utils/async"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// SessionUseCase runs pipeline transitions against stored sessions. Requests
// for one session are serialized; different sessions proceed in parallel.
type SessionUseCase struct {
	sessions     interfaces.SessionRepository
	loader       interfaces.DocumentLoader
	orchestrator *Orchestrator
	archiver     interfaces.Archiver
	locks        *sessionLocks
	now          func() time.Time
}

// NewSessionUseCase creates a new SessionUseCase instance
func NewSessionUseCase(sessions interfaces.SessionRepository, loader interfaces.DocumentLoader, orchestrator *Orchestrator, archiver interfaces.Archiver, now func() time.Time) *SessionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SessionUseCase{
		sessions:     sessions,
		loader:       loader,
		orchestrator: orchestrator,
		archiver:     archiver,
		locks:        newSessionLocks(),
		now:          now,
	}
}

// Create loads an uploaded document into a new session
func (uc *SessionUseCase) Create(ctx context.Context, filename string, content []byte) (*model.Session, error) {
	doc, err := uc.loader.Load(ctx, filename, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load document", goerr.V(model.FilenameKey, filename))
	}

	s, err := uc.orchestrator.Upload(nil, doc)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Put(ctx, s); err != nil {
		return nil, goerr.Wrap(err, "failed to save session", goerr.V(model.SessionIDKey, s.ID))
	}

	logging.From(ctx).Info("session created",
		"session_id", s.ID,
		"filename", doc.Filename,
		"format", doc.Format,
		"text_length", len(doc.Text))

	return s, nil
}

// Get returns the current state of a session
func (uc *SessionUseCase) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return uc.sessions.Get(ctx, id)
}

// Delete discards a session
func (uc *SessionUseCase) Delete(ctx context.Context, id model.SessionID) error {
	unlock := uc.locks.lock(id)
	defer unlock()

	return uc.sessions.Delete(ctx, id)
}

// Document returns the original upload of a session
func (uc *SessionUseCase) Document(ctx context.Context, id model.SessionID) (*model.Document, error) {
	s, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Document == nil {
		return nil, goerr.Wrap(model.ErrInvalidState, "session has no document",
			goerr.V(model.SessionIDKey, id), goerr.V(model.StateKey, s.State))
	}
	return s.Document, nil
}

// GenerateTestCases runs test case generation on a stored session
func (uc *SessionUseCase) GenerateTestCases(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return uc.transition(ctx, id, func(s *model.Session) (*model.Session, error) {
		return uc.orchestrator.GenerateTestCases(ctx, s)
	})
}

// Select records the test case selection of a stored session
func (uc *SessionUseCase) Select(ctx context.Context, id model.SessionID, testIDs []string) (*model.Session, error) {
	return uc.transition(ctx, id, func(s *model.Session) (*model.Session, error) {
		return uc.orchestrator.Select(s, testIDs)
	})
}

// GenerateSteps runs step generation on a stored session
func (uc *SessionUseCase) GenerateSteps(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return uc.transition(ctx, id, func(s *model.Session) (*model.Session, error) {
		return uc.orchestrator.GenerateSteps(ctx, s)
	})
}

// transition applies fn under the session lock. Whatever session fn returns
// is saved, including the partial session that accompanies a failure, so the
// stored conversation reflects every exchange that happened.
func (uc *SessionUseCase) transition(ctx context.Context, id model.SessionID, fn func(*model.Session) (*model.Session, error)) (*model.Session, error) {
	unlock := uc.locks.lock(id)
	defer unlock()

	s, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, fnErr := fn(s)
	if next != nil {
		if err := uc.sessions.Put(ctx, next); err != nil {
			return nil, goerr.Wrap(err, "failed to save session", goerr.V(model.SessionIDKey, id))
		}
	}
	if fnErr != nil {
		return nil, fnErr
	}
	return next, nil
}

// ExportCSV renders the step plan of a session as CSV. When an archiver is
// configured a copy is stored in the background.
func (uc *SessionUseCase) ExportCSV(ctx context.Context, id model.SessionID) ([]byte, error) {
	s, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.StepPlan == nil {
		return nil, goerr.Wrap(model.ErrInvalidState, "no test steps to export",
			goerr.V(model.SessionIDKey, id), goerr.V(model.StateKey, s.State))
	}

	data, err := StepPlanCSV(s.StepPlan)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render CSV", goerr.V(model.SessionIDKey, id))
	}

	if uc.archiver != nil {
		name := exportObjectName(s.ID, uc.now())
		async.Dispatch(ctx, "archive_export", func(ctx context.Context) error {
			url, err := uc.archiver.Store(ctx, name, CSVContentType, data)
			if err != nil {
				return goerr.Wrap(err, "failed to archive export", goerr.V(model.SessionIDKey, id))
			}
			logging.From(ctx).Info("export archived", "session_id", id, "url", url)
			return nil
		})
	}

	return data, nil
}

func exportObjectName(id model.SessionID, now time.Time) string {
	return now.UTC().Format("2006/01/02") + "/" + string(id) + "/" + now.UTC().Format("150405") + "_" + ExportFilename
}

// sessionLocks hands out one mutex per session ID and forgets it when no
// request holds or waits for it
type sessionLocks struct {
	mu    sync.Mutex
	locks map[model.SessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[model.SessionID]*sessionLock)}
}

func (l *sessionLocks) lock(id model.SessionID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
