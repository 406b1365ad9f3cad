package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

const docxBodyPart = "word/document.xml"

// maxDOCXBodySize bounds the decompressed body part
const maxDOCXBodySize = 64 << 20

func isDOCX(content []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			return true
		}
	}
	return false
}

// extractDOCX reads the text runs of the WordprocessingML body. Each paragraph
// becomes one line.
func extractDOCX(content []byte) (*extraction, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to open DOCX", goerr.V("error", err.Error()))
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, goerr.Wrap(model.ErrIngestion, "DOCX has no document body", goerr.V("part", docxBodyPart))
	}

	rc, err := body.Open()
	if err != nil {
		return nil, goerr.Wrap(model.ErrIngestion, "failed to open DOCX body", goerr.V("error", err.Error()))
	}
	defer func() { _ = rc.Close() }()

	text, err := docxText(io.LimitReader(rc, maxDOCXBodySize))
	if err != nil {
		return nil, err
	}
	return &extraction{text: text, pages: 1}, nil
}

func docxText(r io.Reader) (string, error) {
	var (
		b      strings.Builder
		inText bool
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", goerr.Wrap(model.ErrIngestion, "malformed DOCX body", goerr.V("error", err.Error()))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
