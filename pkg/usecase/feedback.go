package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/utils/async"
)

// DefaultFeedbackListLimit caps List when no limit is given
const DefaultFeedbackListLimit = 50

// FeedbackUseCase stores operator feedback and announces it
type FeedbackUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

// NewFeedbackUseCase creates a new FeedbackUseCase instance. notifier may be
// nil.
func NewFeedbackUseCase(repo interfaces.Repository, notifier interfaces.Notifier) *FeedbackUseCase {
	return &FeedbackUseCase{
		repo:     repo,
		notifier: notifier,
	}
}

// FeedbackInput is a feedback form submission
type FeedbackInput struct {
	SessionID       model.SessionID
	UploadComment   string
	TestCaseComment string
	TestStepComment string
}

// Submit stores the feedback. At least one comment is required.
func (uc *FeedbackUseCase) Submit(ctx context.Context, input FeedbackInput) (*model.Feedback, error) {
	fb := &model.Feedback{
		SessionID:       input.SessionID,
		UploadComment:   strings.TrimSpace(input.UploadComment),
		TestCaseComment: strings.TrimSpace(input.TestCaseComment),
		TestStepComment: strings.TrimSpace(input.TestStepComment),
	}
	if fb.IsEmpty() {
		return nil, goerr.Wrap(model.ErrEmptyFeedback, "at least one comment is required")
	}

	created, err := uc.repo.Feedback().Create(ctx, fb)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store feedback", goerr.V(model.SessionIDKey, input.SessionID))
	}

	if uc.notifier != nil {
		notified := *created
		async.Dispatch(ctx, "notify_feedback", func(ctx context.Context) error {
			return uc.notifier.NotifyFeedback(ctx, &notified)
		})
	}

	return created, nil
}

// Get returns one feedback entry
func (uc *FeedbackUseCase) Get(ctx context.Context, id model.FeedbackID) (*model.Feedback, error) {
	fb, err := uc.repo.Feedback().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get feedback", goerr.V(model.FeedbackIDKey, id))
	}
	return fb, nil
}

// List returns recent feedback, newest first. A session ID narrows the list
// to that session.
func (uc *FeedbackUseCase) List(ctx context.Context, sessionID model.SessionID, limit int) ([]*model.Feedback, error) {
	if sessionID != "" {
		entries, err := uc.repo.Feedback().ListBySession(ctx, sessionID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list feedback", goerr.V(model.SessionIDKey, sessionID))
		}
		return entries, nil
	}

	if limit <= 0 {
		limit = DefaultFeedbackListLimit
	}
	entries, err := uc.repo.Feedback().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feedback", goerr.V("limit", limit))
	}
	return entries, nil
}
