package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/intecdocs/docfinder/internal/store"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	}
}

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	dir := t.TempDir()
	st := store.NewJSONStore(filepath.Join(dir, "index.json"))
	if err := st.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc := NewService(st, NewDiskWriter(filepath.Join(dir, "files")), WithClock(fixedClock()))
	return svc, st
}

func TestIngestAssignsSequentialIDs(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		record, err := svc.Ingest(ctx, fmt.Sprintf("nota_%d.txt", i), []byte("factura con subtotal e itbis"))
		if err != nil {
			t.Fatalf("Ingest #%d: %v", i, err)
		}
		if record.ID != i {
			t.Errorf("record.ID = %d, want %d", record.ID, i)
		}
		wantName := fmt.Sprintf("doc_%04d.txt", i)
		if record.StoredFilename != wantName {
			t.Errorf("StoredFilename = %q, want %q", record.StoredFilename, wantName)
		}
	}

	index := st.Load(ctx)
	if index.LastID != 3 {
		t.Errorf("LastID = %d, want 3", index.LastID)
	}
	if len(index.Documents) != 3 {
		t.Errorf("len(Documents) = %d, want 3", len(index.Documents))
	}
}

func TestIngestClassifiesFromContent(t *testing.T) {
	svc, _ := newTestService(t)
	record, err := svc.Ingest(context.Background(), "escaneo_001.txt", []byte("factura emitida con subtotal e itbis"))
	if err != nil {
		t.Fatal(err)
	}
	if record.Category != "Factura" {
		t.Errorf("Category = %q, want Factura", record.Category)
	}
	if record.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", record.Confidence)
	}
	if record.ExtractionFailed {
		t.Error("ExtractionFailed = true for plain text")
	}
	if record.UploadedAt != "2025-03-10 14:30:00" {
		t.Errorf("UploadedAt = %q", record.UploadedAt)
	}
}

func TestIngestImageFlagsExtractionFailure(t *testing.T) {
	svc, _ := newTestService(t)
	record, err := svc.Ingest(context.Background(), "contrato_alquiler.jpg", []byte{0xFF, 0xD8, 0xFF})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !record.ExtractionFailed {
		t.Error("ExtractionFailed = false, want true")
	}
	if record.Excerpt != "" {
		t.Errorf("Excerpt = %q, want empty", record.Excerpt)
	}
	// classification still works from the filename
	if record.Category != "Contrato" {
		t.Errorf("Category = %q, want Contrato", record.Category)
	}
	if record.Confidence != 0.25 {
		t.Errorf("Confidence = %v, want 0.25", record.Confidence)
	}
}

func TestIngestStoresFileOnDisk(t *testing.T) {
	svc, _ := newTestService(t)
	record, err := svc.Ingest(context.Background(), "recibo de pago.txt", []byte("recibo por abono en efectivo"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(record.StoragePath)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "recibo por abono en efectivo" {
		t.Errorf("stored content = %q", data)
	}
	if filepath.Base(filepath.Dir(record.StoragePath)) != record.Category {
		t.Errorf("file not stored under category dir: %s", record.StoragePath)
	}
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	svc, st := newTestService(t)
	if _, err := svc.Ingest(context.Background(), "malware.exe", []byte("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("error = %v, want ErrUnsupportedType", err)
	}
	if got := st.Load(context.Background()).LastID; got != 0 {
		t.Errorf("LastID = %d after rejected upload, want 0", got)
	}
}

type failWriter struct{}

func (failWriter) Write(category, filename string, content []byte) (string, error) {
	return "", fmt.Errorf("disk full")
}

func TestIngestWriteFailureLeavesIndexUntouched(t *testing.T) {
	dir := t.TempDir()
	st := store.NewJSONStore(filepath.Join(dir, "index.json"))
	if err := st.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc := NewService(st, failWriter{})

	if _, err := svc.Ingest(context.Background(), "nota.txt", []byte("hola mundo")); err == nil {
		t.Fatal("expected error from failing writer")
	}
	index := st.Load(context.Background())
	if index.LastID != 0 || len(index.Documents) != 0 {
		t.Errorf("index mutated after failed write: last_id=%d docs=%d", index.LastID, len(index.Documents))
	}
}

func TestIngestTruncatesExcerpt(t *testing.T) {
	svc, _ := newTestService(t)
	long := strings.Repeat("ñ", 600)
	record, err := svc.Ingest(context.Background(), "largo.txt", []byte(long))
	if err != nil {
		t.Fatal(err)
	}
	if got := len([]rune(record.Excerpt)); got != 500 {
		t.Errorf("excerpt rune count = %d, want 500", got)
	}
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	svc, st := newTestService(t)
	result := svc.IngestBatch(context.Background(), []BatchFile{
		{Name: "contrato.txt", Content: []byte("contrato de alquiler entre las partes")},
		{Name: "virus.exe", Content: []byte("x")},
		{Name: "recibo.txt", Content: []byte("recibo de abono")},
	})
	if result.Processed != 2 || result.Failed != 1 {
		t.Errorf("processed=%d failed=%d, want 2/1", result.Processed, result.Failed)
	}
	if len(result.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(result.Items))
	}
	if result.Items[1].Error == "" {
		t.Error("failed item has no error message")
	}
	if result.Items[0].Record == nil || result.Items[0].Record.ID != 1 {
		t.Errorf("first item record = %+v", result.Items[0].Record)
	}
	if got := st.Load(context.Background()).LastID; got != 2 {
		t.Errorf("LastID = %d, want 2", got)
	}
}

func TestSanitizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Factura", "Factura"},
		{"Currículum/Hoja de vida", "Currículum_Hoja de vida"},
		{`a\b`, "a_b"},
	}
	for _, tt := range tests {
		if got := sanitizeCategory(tt.in); got != tt.want {
			t.Errorf("sanitizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
