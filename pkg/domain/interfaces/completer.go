package interfaces

import (
	"context"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// Completer sends a full conversation to the completion service and returns the
// generated text. Implementations are stateless: all continuity lives in the
// messages passed in.
type Completer interface {
	Complete(ctx context.Context, messages []model.Message) (string, error)
}
