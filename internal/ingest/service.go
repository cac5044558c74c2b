// Package ingest runs the document intake pipeline: extract, classify, store
// the file, and append the record to the index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/classify"
	"github.com/intecdocs/docfinder/internal/extract"
	"github.com/intecdocs/docfinder/internal/models"
	"github.com/intecdocs/docfinder/internal/store"
	"github.com/intecdocs/docfinder/pkg/utils"
)

// ErrUnsupportedType rejects uploads outside the accepted extension set.
var ErrUnsupportedType = errors.New("unsupported file type")

// excerptRunes is how much extracted text is kept on the record.
const excerptRunes = 500

// acceptedExtensions is the upload whitelist. Keys are lowercase with dot.
var acceptedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".txt":  {},
}

// Service is the intake pipeline. The mutex serializes the whole
// load-assign-save sequence so ids stay unique and the index file is never
// written concurrently.
type Service struct {
	mu        sync.Mutex
	store     store.Store
	writer    FileWriter
	extractor *extract.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the upload timestamp clock. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds an intake service over the given store and file writer.
func NewService(st store.Store, writer FileWriter, opts ...Option) *Service {
	s := &Service{
		store:     st,
		writer:    writer,
		extractor: extract.NewExtractor(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest runs the full pipeline for one uploaded file and returns the stored
// record. Extraction failure does not fail the ingest; the record is flagged
// and classified from the filename alone. A file write failure aborts before
// the index is touched, so no orphan record is created.
func (s *Service) Ingest(ctx context.Context, originalName string, content []byte) (*models.DocumentRecord, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := acceptedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	text, err := s.extractor.ExtractBytes(content, ext)
	failed := false
	if err != nil {
		failed = true
		text = ""
		s.logger.Warn("text extraction failed",
			zap.String("file", originalName),
			zap.Error(err),
		)
	}

	category, confidence := classify.Classify(text, originalName)

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.store.Load(ctx)
	id := index.LastID + 1
	storedFilename := fmt.Sprintf("doc_%04d%s", id, ext)

	storagePath, err := s.writer.Write(category, storedFilename, content)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	record := models.DocumentRecord{
		ID:               id,
		OriginalName:     originalName,
		StoredFilename:   storedFilename,
		StoragePath:      storagePath,
		Category:         category,
		Confidence:       utils.Round2(confidence),
		UploadedAt:       s.now().Format(models.TimestampLayout),
		SizeKB:           utils.Round2(float64(len(content)) / 1024),
		Extension:        ext,
		Excerpt:          utils.TruncateRunes(text, excerptRunes),
		ExtractionFailed: failed,
	}

	index.Documents = append(index.Documents, record)
	index.LastID = id
	if err := s.store.Save(ctx, index); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	s.logger.Info("document ingested",
		zap.Int("id", id),
		zap.String("category", category),
		zap.Float64("confidence", record.Confidence),
		zap.Bool("extraction_failed", failed),
	)
	return &record, nil
}

// IngestFile ingests a file already on disk, as dropped into a hot folder.
// The source file is removed on success; intake consumes what it processes
// so the folder never re-ingests the same drop.
func (s *Service) IngestFile(ctx context.Context, path string) (*models.DocumentRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intake file: %w", err)
	}
	record, err := s.Ingest(ctx, filepath.Base(path), content)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		s.logger.Warn("could not remove intake file", zap.String("path", path), zap.Error(err))
	}
	return record, nil
}

// BatchFile is one file in a batch upload.
type BatchFile struct {
	Name    string
	Content []byte
}

// BatchItem is the per-file outcome of a batch ingest.
type BatchItem struct {
	Name   string                 `json:"name"`
	Record *models.DocumentRecord `json:"record,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// BatchResult rolls up a batch ingest.
type BatchResult struct {
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// IngestBatch processes each file independently; one bad file never aborts
// the rest of the batch.
func (s *Service) IngestBatch(ctx context.Context, files []BatchFile) BatchResult {
	result := BatchResult{Items: make([]BatchItem, 0, len(files))}
	for _, f := range files {
		record, err := s.Ingest(ctx, f.Name, f.Content)
		item := BatchItem{Name: f.Name}
		if err != nil {
			item.Error = err.Error()
			result.Failed++
		} else {
			item.Record = record
			result.Processed++
		}
		result.Items = append(result.Items, item)
	}
	return result
}
