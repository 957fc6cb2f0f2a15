package document

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sceneweave/sceneweave/core"
)

// Well-known MIME types accepted by the pipeline.
const (
	MIMEPDF       = "application/pdf"
	MIMEPPTX      = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEPlainText = "text/plain"
)

// supportedMIMETypes lists the formats the pipeline accepts at the boundary.
var supportedMIMETypes = map[string]struct{}{
	MIMEPDF:       {},
	MIMEPPTX:      {},
	MIMEPlainText: {},
}

// IsSupportedMIME reports whether mime is a format the pipeline accepts.
func IsSupportedMIME(mime string) bool {
	_, ok := supportedMIMETypes[mime]
	return ok
}

// Document is an uploaded source document awaiting extraction.
type Document struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data []byte `json:"-"`
}

// Extractor converts raw document bytes into plain text.
//
// Implementations return core.ErrUnsupportedFormat (wrapped) for MIME types
// they do not handle, and *IOError for corrupt or unreadable input.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (string, error)
}

// IOError indicates a document that claimed a supported format but could not
// be read.
type IOError struct {
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("document %q unreadable: %v", e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// TextExtractor handles text/plain documents. Other formats are rejected
// with core.ErrUnsupportedFormat so callers can route them to a richer
// extractor.
type TextExtractor struct{}

// NewTextExtractor constructs a TextExtractor.
func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

// Extract implements Extractor. The payload must be valid UTF-8.
func (x *TextExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc.MIME != MIMEPlainText {
		return "", fmt.Errorf("mime %q: %w", doc.MIME, core.ErrUnsupportedFormat)
	}
	if !utf8.Valid(doc.Data) {
		return "", &IOError{Name: doc.Name, Err: fmt.Errorf("payload is not valid utf-8")}
	}
	return strings.TrimSpace(string(doc.Data)), nil
}
