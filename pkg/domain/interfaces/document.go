package interfaces

import (
	"context"

	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// DocumentLoader extracts plain text from an uploaded file
type DocumentLoader interface {
	Load(ctx context.Context, filename string, content []byte) (*model.Document, error)
}
