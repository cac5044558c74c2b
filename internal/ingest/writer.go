package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileWriter persists an uploaded file's bytes and returns the stored path.
type FileWriter interface {
	Write(category, filename string, content []byte) (string, error)
}

// DiskWriter stores files under root, one subdirectory per category.
type DiskWriter struct {
	root string
}

// NewDiskWriter returns a DiskWriter rooted at root.
func NewDiskWriter(root string) *DiskWriter {
	return &DiskWriter{root: root}
}

// Write stores content under root/<sanitized category>/<filename> and returns
// the full path. The category directory is created on demand.
func (w *DiskWriter) Write(category, filename string, content []byte) (string, error) {
	dir := filepath.Join(w.root, sanitizeCategory(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// sanitizeCategory makes a category name safe as a directory component.
// "Currículum/Hoja de vida" must not split into nested directories.
func sanitizeCategory(category string) string {
	r := strings.NewReplacer("/", "_", "\\", "_")
	return r.Replace(category)
}
