package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/intecdocs/docfinder/internal/models"
)

func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	return NewJSONStore(path), path
}

func TestInitCreatesEmptyIndex(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("index file not created: %v", err)
	}

	// Idempotent: a second Init must not touch existing state.
	idx := s.Load(ctx)
	idx.LastID = 7
	if err := s.Save(ctx, idx); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if got := s.Load(ctx).LastID; got != 7 {
		t.Errorf("LastID after re-Init = %d, want 7", got)
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	idx := s.Load(context.Background())
	if idx.LastID != 0 {
		t.Errorf("LastID = %d, want 0", idx.LastID)
	}
	if len(idx.Documents) != 0 {
		t.Errorf("Documents = %d, want 0", len(idx.Documents))
	}
	if idx.Documents == nil {
		t.Error("Documents is nil, want empty slice")
	}
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	s, path := newTestStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	idx := s.Load(context.Background())
	if idx.LastID != 0 || len(idx.Documents) != 0 {
		t.Errorf("corrupt file: got LastID=%d docs=%d, want empty index", idx.LastID, len(idx.Documents))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	idx := models.NewIndex()
	idx.Documents = append(idx.Documents, models.DocumentRecord{
		ID:           1,
		OriginalName: "cédula_juan_peña.pdf",
		Category:     "Identificación personal",
		Confidence:   0.85,
		UploadedAt:   "2025-03-15 10:30:00",
		SizeKB:       12.5,
		Extension:    ".pdf",
		Excerpt:      "República Dominicana — cédula de identidad y electoral",
	})
	idx.LastID = 1

	if err := s.Save(ctx, idx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got := s.Load(ctx)
	if got.LastID != 1 || len(got.Documents) != 1 {
		t.Fatalf("Load() = %d docs, LastID %d", len(got.Documents), got.LastID)
	}
	if got.Documents[0] != idx.Documents[0] {
		t.Errorf("record round-trip mismatch:\n got %+v\nwant %+v", got.Documents[0], idx.Documents[0])
	}
}

func TestSavePreservesUTF8AndContract(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	idx := models.NewIndex()
	idx.Documents = append(idx.Documents, models.DocumentRecord{
		ID:           1,
		OriginalName: "informe año 2025.pdf",
		Category:     "Informe",
		Excerpt:      "análisis & conclusión",
	})
	idx.LastID = 1
	if err := s.Save(ctx, idx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	// Non-ASCII must be stored verbatim, not \uXXXX-escaped.
	if !strings.Contains(text, "año") || !strings.Contains(text, "análisis & conclusión") {
		t.Errorf("non-ASCII text was escaped:\n%s", text)
	}
	// Canonical top-level keys other tooling reads.
	if !strings.Contains(text, `"documentos"`) || !strings.Contains(text, `"ultimo_id"`) {
		t.Errorf("missing canonical keys:\n%s", text)
	}
	if !strings.Contains(text, "\n  \"documentos\"") {
		t.Errorf("expected 2-space indentation:\n%s", text)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, models.NewIndex()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
