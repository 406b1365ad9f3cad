package model

import (
	"time"

	"github.com/secmon-lab/testgenie/pkg/domain/types"
)

// Document is the text extracted from an uploaded file. It is immutable once
// loaded; Raw keeps the original bytes for preview.
type Document struct {
	Filename string
	Format   types.DocumentFormat
	Text     string
	Raw      []byte
	Pages    int
	LoadedAt time.Time
}
