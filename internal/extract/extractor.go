// Package extract provides text extraction from uploaded document files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported marks file types the extractor cannot read. Scanned images
// fall here until an OCR backend exists; the intake pipeline stores the
// document anyway and flags the record instead of failing the upload.
var ErrUnsupported = errors.New("extraction not supported for this file type")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// PDF text is pulled from the content streams; .txt is returned as-is
// (UTF-8 validated). Image formats return ErrUnsupported.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".txt", ".md":
		return extractPlain(content)
	case ".jpg", ".jpeg", ".png":
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}
