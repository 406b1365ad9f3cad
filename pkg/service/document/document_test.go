package document_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
	"github.com/secmon-lab/testgenie/pkg/domain/types"
	"github.com/secmon-lab/testgenie/pkg/service/document"
)

func newDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	gt.NoError(t, err).Required()
	_, err = w.Write([]byte(body))
	gt.NoError(t, err).Required()
	gt.NoError(t, zw.Close()).Required()
	return buf.Bytes()
}

// newPDF builds a PDF with one page per content stream. Text is drawn with a
// WinAnsi Helvetica font.
func newPDF(t *testing.T, contents ...string) []byte {
	t.Helper()

	pageCount := len(contents)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // pages, filled below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	kids := make([]string, 0, pageCount)
	for _, content := range contents {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func textPage(text string) string {
	return fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
}

// imagePage draws only a rectangle, like a scanned page without a text layer
const imagePage = "0 0 1 rg 72 72 468 648 re f"

func TestLoadText(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	loader := document.New(document.WithClock(func() time.Time { return now }))

	content := []byte("\xEF\xBB\xBFUser story: set truck temperature <5C> & \"keep\" it")
	doc, err := loader.Load(context.Background(), "story.txt", content)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Filename).Equal("story.txt")
	gt.Value(t, doc.Format).Equal(types.DocumentFormatText)
	gt.Value(t, doc.Text).Equal("User story: set truck temperature <5C> & \"keep\" it")
	gt.Value(t, doc.Raw).Equal(content)
	gt.Value(t, doc.LoadedAt).Equal(now)

	content[3] = 'X'
	gt.Value(t, doc.Raw[3]).Equal(byte('U'))
}

func TestLoadMarkdown(t *testing.T) {
	doc, err := document.New().Load(context.Background(), "story.md", []byte("# Booking\n\n- step"))
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Format).Equal(types.DocumentFormatMarkdown)
	gt.Value(t, doc.Text).Equal("# Booking\n\n- step")
}

func TestLoadHTML(t *testing.T) {
	page := `<html><head><title>Booking</title><script>alert(1)</script></head>
<body><nav>menu</nav><h1>Temperature</h1><p>Set <b>5C</b> for reefer cargo</p><script>track()</script></body></html>`

	doc, err := document.New().Load(context.Background(), "story.html", []byte(page))
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Format).Equal(types.DocumentFormatHTML)
	gt.String(t, doc.Text).Contains("Temperature")
	gt.String(t, doc.Text).Contains("5C")
	gt.String(t, doc.Text).Contains("Booking")
	gt.Bool(t, strings.Contains(doc.Text, "alert")).False()
	gt.Bool(t, strings.Contains(doc.Text, "track()")).False()
	gt.Bool(t, strings.Contains(doc.Text, "menu")).False()
}

func TestLoadDOCX(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>User story</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Set </w:t></w:r><w:r><w:t>temperature</w:t><w:tab/><w:t>5C</w:t></w:r></w:p>
</w:body>
</w:document>`

	t.Run("by extension", func(t *testing.T) {
		doc, err := document.New().Load(context.Background(), "story.docx", newDOCX(t, body))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Format).Equal(types.DocumentFormatDOCX)
		gt.Value(t, doc.Text).Equal("User story\nSet temperature\t5C")
	})

	t.Run("by content", func(t *testing.T) {
		doc, err := document.New().Load(context.Background(), "upload", newDOCX(t, body))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Format).Equal(types.DocumentFormatDOCX)
	})

	t.Run("zip without body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		_, err := zw.Create("readme.txt")
		gt.NoError(t, err).Required()
		gt.NoError(t, zw.Close()).Required()

		_, err = document.New().Load(context.Background(), "story.docx", buf.Bytes())
		gt.Error(t, err).Is(model.ErrIngestion)
	})
}

func TestLoadPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("pages are joined in order", func(t *testing.T) {
		content := newPDF(t, textPage("User story one"), textPage("Precondition two"))
		doc, err := document.New().Load(ctx, "requirements.pdf", content)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Format).Equal(types.DocumentFormatPDF)
		gt.Value(t, doc.Pages).Equal(2)
		gt.Value(t, doc.Text).Equal("User story one\nPrecondition two")
		gt.Value(t, doc.Raw).Equal(content)
	})

	t.Run("page without text layer is skipped", func(t *testing.T) {
		content := newPDF(t, textPage("User story one"), imagePage, textPage("Precondition three"))
		doc, err := document.New().Load(ctx, "requirements.pdf", content)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Pages).Equal(3)
		gt.Value(t, doc.Text).Equal("User story one\nPrecondition three")
	})

	t.Run("sniffed without extension", func(t *testing.T) {
		doc, err := document.New().Load(ctx, "upload", newPDF(t, textPage("User story one")))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Format).Equal(types.DocumentFormatPDF)
		gt.Value(t, doc.Text).Equal("User story one")
	})
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		_, err := document.New().Load(ctx, "story.txt", []byte("  \n\t"))
		gt.Error(t, err).Is(model.ErrIngestion)
	})

	t.Run("invalid UTF-8", func(t *testing.T) {
		_, err := document.New().Load(ctx, "story.txt", []byte{0xff, 0xfe, 'a'})
		gt.Error(t, err).Is(model.ErrIngestion)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := document.New(document.WithMaxSize(4)).Load(ctx, "story.txt", []byte("hello"))
		gt.Error(t, err).Is(model.ErrIngestion)
	})

	t.Run("PDF without text layer", func(t *testing.T) {
		_, err := document.New().Load(ctx, "scan.pdf", newPDF(t, imagePage, imagePage))
		gt.Error(t, err).Is(model.ErrIngestion)
	})

	t.Run("broken PDF", func(t *testing.T) {
		_, err := document.New().Load(ctx, "story.pdf", []byte("%PDF-1.4\nnot really a pdf"))
		gt.Error(t, err).Is(model.ErrIngestion)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := document.New().Load(ctx, "image.bin", []byte{0x00, 0x01, 0x02, 0x03})
		gt.Error(t, err).Is(model.ErrUnsupportedFormat)
	})

	t.Run("unknown extension with text content", func(t *testing.T) {
		doc, err := document.New().Load(ctx, "README", []byte("plain requirements"))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Format).Equal(types.DocumentFormatText)
	})
}
