package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/intecdocs/docfinder/internal/models"
)

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	idx := models.NewIndex()
	idx.Documents = append(idx.Documents,
		models.DocumentRecord{
			ID: 1, OriginalName: "factura_eléctrica.pdf", Category: "Factura",
			Confidence: 0.6, UploadedAt: "2025-01-10 09:00:00", SizeKB: 44.21,
			Extension: ".pdf", Excerpt: "factura no. 1042, total RD$ 3,500",
		},
		models.DocumentRecord{
			ID: 2, OriginalName: "foto_cedula.png", Category: "Otros",
			Confidence: 0.3, UploadedAt: "2025-02-01 12:00:00", SizeKB: 150,
			Extension: ".png", ExtractionFailed: true,
		},
	)
	idx.LastID = 2

	if err := s.Save(ctx, idx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got := s.Load(ctx)
	if got.LastID != 2 {
		t.Errorf("LastID = %d, want 2", got.LastID)
	}
	if len(got.Documents) != 2 {
		t.Fatalf("Documents = %d, want 2", len(got.Documents))
	}
	if got.Documents[0] != idx.Documents[0] || got.Documents[1] != idx.Documents[1] {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got.Documents, idx.Documents)
	}

	// A second Save fully replaces the snapshot.
	idx.Documents = idx.Documents[:1]
	idx.LastID = 2
	if err := s.Save(ctx, idx); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(ctx); len(got.Documents) != 1 {
		t.Errorf("after overwrite: Documents = %d, want 1", len(got.Documents))
	}
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	idx := s.Load(context.Background())
	if idx.LastID != 0 || len(idx.Documents) != 0 {
		t.Errorf("empty db: got LastID=%d docs=%d", idx.LastID, len(idx.Documents))
	}
}
