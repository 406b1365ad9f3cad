package interfaces

import (
	"context"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// Archiver keeps a copy of exported artifacts outside the process
type Archiver interface {
	// Store writes data under name and returns a URL identifying the object
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Notifier announces operator feedback to the team
type Notifier interface {
	NotifyFeedback(ctx context.Context, feedback *model.Feedback) error
}
