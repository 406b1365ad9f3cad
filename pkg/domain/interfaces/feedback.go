package interfaces

import (
	"context"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// FeedbackRepository stores operator feedback
type FeedbackRepository interface {
	// Create stores a feedback entry. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error)

	// Get returns model.ErrFeedbackNotFound for an unknown ID
	Get(ctx context.Context, id model.FeedbackID) (*model.Feedback, error)

	// List returns the newest entries first, at most limit entries
	List(ctx context.Context, limit int) ([]*model.Feedback, error)

	// ListBySession returns the entries of one session, newest first
	ListBySession(ctx context.Context, sessionID model.SessionID) ([]*model.Feedback, error)
}
