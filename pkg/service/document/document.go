// Package document extracts plain text from uploaded requirement documents.
package document

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
)

// DefaultMaxSize is the upload size limit applied when none is configured
const DefaultMaxSize = 20 << 20

// extraction is the result of one format-specific extractor
type extraction struct {
	text  string
	pages int
}

type extractor func(content []byte) (*extraction, error)

// Loader turns an uploaded file into a Document. The format is detected from
// the file extension, falling back to content sniffing.
type Loader struct {
	maxSize    int64
	now        func() time.Time
	extractors map[types.DocumentFormat]extractor
}

var _ interfaces.DocumentLoader = (*Loader)(nil)

// Option configures a Loader
type Option func(*Loader)

// WithMaxSize sets the maximum accepted document size in bytes
func WithMaxSize(size int64) Option {
	return func(l *Loader) {
		if size > 0 {
			l.maxSize = size
		}
	}
}

// WithClock replaces the clock used for Document.LoadedAt
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		l.now = now
	}
}

// New creates a Loader supporting PDF, DOCX, HTML, markdown and plain text
func New(opts ...Option) *Loader {
	l := &Loader{
		maxSize: DefaultMaxSize,
		now:     time.Now,
		extractors: map[types.DocumentFormat]extractor{
			types.DocumentFormatPDF:      extractPDF,
			types.DocumentFormatDOCX:     extractDOCX,
			types.DocumentFormatHTML:     extractHTML,
			types.DocumentFormatMarkdown: extractText,
			types.DocumentFormatText:     extractText,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load extracts the text of content. A document yielding no text, such as a
// scanned PDF without a text layer, fails with model.ErrIngestion.
func (l *Loader) Load(ctx context.Context, filename string, content []byte) (*model.Document, error) {
	if int64(len(content)) > l.maxSize {
		return nil, goerr.Wrap(model.ErrIngestion, "document is too large",
			goerr.V(model.FilenameKey, filename),
			goerr.V("size", len(content)),
			goerr.V("max_size", l.maxSize))
	}

	format := types.DetectDocumentFormat(filename)
	if format == types.DocumentFormatUnknown {
		format = sniffFormat(content)
	}
	extract, ok := l.extractors[format]
	if !ok {
		return nil, goerr.Wrap(model.ErrUnsupportedFormat, "no extractor for document",
			goerr.V(model.FilenameKey, filename))
	}

	result, err := extract(content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract document text",
			goerr.V(model.FilenameKey, filename),
			goerr.V("format", format))
	}
	if strings.TrimSpace(result.text) == "" {
		return nil, goerr.Wrap(model.ErrIngestion, "document has no extractable text",
			goerr.V(model.FilenameKey, filename),
			goerr.V("format", format),
			goerr.V("pages", result.pages))
	}

	logging.From(ctx).Debug("document loaded",
		"filename", filename,
		"format", format,
		"pages", result.pages,
		"text_length", len(result.text))

	raw := make([]byte, len(content))
	copy(raw, content)

	return &model.Document{
		Filename: filename,
		Format:   format,
		Text:     result.text,
		Raw:      raw,
		Pages:    result.pages,
		LoadedAt: l.now(),
	}, nil
}

// sniffFormat guesses the format of a file whose extension is unknown
func sniffFormat(content []byte) types.DocumentFormat {
	switch ct := http.DetectContentType(content); {
	case ct == "application/pdf":
		return types.DocumentFormatPDF
	case strings.HasPrefix(ct, "text/html"):
		return types.DocumentFormatHTML
	case ct == "application/zip" && isDOCX(content):
		return types.DocumentFormatDOCX
	case strings.HasPrefix(ct, "text/plain"):
		return types.DocumentFormatText
	default:
		return types.DocumentFormatUnknown
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractText(content []byte) (*extraction, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, goerr.Wrap(model.ErrIngestion, "text document is not valid UTF-8")
	}
	return &extraction{text: string(content), pages: 1}, nil
}
