package document

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// extractPDF concatenates the plain text of every page in page order,
// separated by a newline. Pages that fail to decode or carry no text layer are
// skipped but still counted.
func extractPDF(content []byte) (result *extraction, err error) {
	// the pdf package panics on some malformed cross reference tables
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = goerr.Wrap(model.ErrIngestion, "malformed PDF", goerr.V("panic", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to open PDF", goerr.V("error", err.Error()))
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	return &extraction{text: strings.Join(pages, "\n"), pages: numPages}, nil
}
