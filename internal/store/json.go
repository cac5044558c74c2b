package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/models"
)

// JSONStore keeps the index in a single flat JSON file:
// {"documentos": [...], "ultimo_id": N}, pretty-printed with 2-space indent
// and HTML escaping disabled so Spanish text round-trips verbatim.
type JSONStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger // optional; when set, logs recovery from corrupt state
}

// JSONStoreOption configures a JSONStore.
type JSONStoreOption func(*JSONStore)

// WithLogger sets a logger for store diagnostics.
func WithLogger(l *zap.Logger) JSONStoreOption {
	return func(s *JSONStore) { s.logger = l }
}

// NewJSONStore creates a store backed by the index file at path.
func NewJSONStore(path string, opts ...JSONStoreOption) *JSONStore {
	s := &JSONStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the parent directory and an empty index file if none exists.
func (s *JSONStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat index: %w", err)
	}
	return s.writeLocked(models.NewIndex())
}

// Load reads the index file. A missing or unparseable file yields a fresh
// empty index; this is deliberate recovery, not an error path.
func (s *JSONStore) Load(ctx context.Context) *models.Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Warn("index unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return models.NewIndex()
	}
	var idx models.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		if s.logger != nil {
			s.logger.Warn("index corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return models.NewIndex()
	}
	if idx.Documents == nil {
		idx.Documents = []models.DocumentRecord{}
	}
	return &idx
}

// Save writes the full index atomically: serialize to a temp file in the same
// directory, then rename over the old file. Readers never observe a torn write.
func (s *JSONStore) Save(ctx context.Context, idx *models.Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(idx)
}

func (s *JSONStore) writeLocked(idx *models.Index) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(s.path), ".index-"+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Close is a no-op for the flat-file store.
func (s *JSONStore) Close() error { return nil }
