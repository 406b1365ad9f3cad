package usecase

import (
	"time"

	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/prompt"
	"github.com/secmon-lab/testgenie/pkg/repository/memory"
	"github.com/secmon-lab/testgenie/pkg/service/document"
)

type UseCases struct {
	repo              interfaces.Repository
	sessions          interfaces.SessionRepository
	loader            interfaces.DocumentLoader
	prompts           *prompt.Builder
	archiver          interfaces.Archiver
	notifier          interfaces.Notifier
	completionTimeout time.Duration
	now               func() time.Time

	Orchestrator *Orchestrator
	Session      *SessionUseCase
	Scenario     *ScenarioUseCase
	Feedback     *FeedbackUseCase
}

type Option func(*UseCases)

func WithSessionRepository(sessions interfaces.SessionRepository) Option {
	return func(uc *UseCases) {
		uc.sessions = sessions
	}
}

func WithDocumentLoader(loader interfaces.DocumentLoader) Option {
	return func(uc *UseCases) {
		uc.loader = loader
	}
}

func WithPromptBuilder(prompts *prompt.Builder) Option {
	return func(uc *UseCases) {
		uc.prompts = prompts
	}
}

func WithArchiver(archiver interfaces.Archiver) Option {
	return func(uc *UseCases) {
		uc.archiver = archiver
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithCompletionTimeout bounds each completion call. Zero means no bound.
func WithCompletionTimeout(timeout time.Duration) Option {
	return func(uc *UseCases) {
		uc.completionTimeout = timeout
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, completer interfaces.Completer, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.sessions == nil {
		uc.sessions = memory.NewSessionRepository()
	}
	if uc.loader == nil {
		uc.loader = document.New(document.WithClock(uc.now))
	}

	uc.Orchestrator = NewOrchestrator(completer, uc.prompts, uc.completionTimeout, uc.now)
	uc.Session = NewSessionUseCase(uc.sessions, uc.loader, uc.Orchestrator, uc.archiver, uc.now)
	uc.Scenario = NewScenarioUseCase(uc.Orchestrator)
	uc.Feedback = NewFeedbackUseCase(repo, uc.notifier)

	return uc
}

// Sessions returns the session store, shared with the expiry worker
func (uc *UseCases) Sessions() interfaces.SessionRepository {
	return uc.sessions
}
