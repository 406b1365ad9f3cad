package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

type feedbackRepository struct {
	mu      sync.RWMutex
	entries map[model.FeedbackID]*model.Feedback
}

func newFeedbackRepository() *feedbackRepository {
	return &feedbackRepository{
		entries: make(map[model.FeedbackID]*model.Feedback),
	}
}

func copyFeedback(f *model.Feedback) *model.Feedback {
	copied := *f
	return &copied
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyFeedback(feedback)
	if created.ID == "" {
		created.ID = model.NewFeedbackID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[created.ID] = created
	return copyFeedback(created), nil
}

func (r *feedbackRepository) Get(ctx context.Context, id model.FeedbackID) (*model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrFeedbackNotFound, "feedback not found", goerr.V(model.FeedbackIDKey, id))
	}
	return copyFeedback(f), nil
}

func (r *feedbackRepository) List(ctx context.Context, limit int) ([]*model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.Feedback, 0, len(r.entries))
	for _, f := range r.entries {
		entries = append(entries, copyFeedback(f))
	}
	sortNewestFirst(entries)

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *feedbackRepository) ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*model.Feedback
	for _, f := range r.entries {
		if f.SessionID == sessionID {
			entries = append(entries, copyFeedback(f))
		}
	}
	sortNewestFirst(entries)
	return entries, nil
}

func sortNewestFirst(entries []*model.Feedback) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
