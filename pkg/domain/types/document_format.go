package types

import (
	"path/filepath"
	"strings"
)

// DocumentFormat is the detected format of an uploaded document
type DocumentFormat string

const (
	DocumentFormatPDF      DocumentFormat = "pdf"
	DocumentFormatDOCX     DocumentFormat = "docx"
	DocumentFormatHTML     DocumentFormat = "html"
	DocumentFormatText     DocumentFormat = "text"
	DocumentFormatMarkdown DocumentFormat = "markdown"
	DocumentFormatUnknown  DocumentFormat = ""
)

// DetectDocumentFormat detects the format from the file extension
func DetectDocumentFormat(filename string) DocumentFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return DocumentFormatPDF
	case ".docx":
		return DocumentFormatDOCX
	case ".html", ".htm":
		return DocumentFormatHTML
	case ".md", ".markdown":
		return DocumentFormatMarkdown
	case ".txt", ".text":
		return DocumentFormatText
	default:
		return DocumentFormatUnknown
	}
}

// ContentType returns the MIME type used when serving the original upload
func (f DocumentFormat) ContentType() string {
	switch f {
	case DocumentFormatPDF:
		return "application/pdf"
	case DocumentFormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case DocumentFormatHTML:
		return "text/html; charset=utf-8"
	case DocumentFormatMarkdown:
		return "text/markdown; charset=utf-8"
	case DocumentFormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// String returns the string representation of the document format
func (f DocumentFormat) String() string {
	return string(f)
}
