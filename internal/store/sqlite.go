package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/models"
)

// SQLiteStore is an alternate Store backed by SQLite, for deployments where
// a single JSON file gets unwieldy. It keeps the same full-snapshot Save
// semantics as the JSON store so both backends are interchangeable.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// SQLiteStoreOption configures a SQLiteStore.
type SQLiteStoreOption func(*SQLiteStore)

// WithSQLiteLogger sets a logger for store diagnostics.
func WithSQLiteLogger(l *zap.Logger) SQLiteStoreOption {
	return func(s *SQLiteStore) { s.logger = l }
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string, opts ...SQLiteStoreOption) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	s := &SQLiteStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		original_name TEXT NOT NULL,
		stored_filename TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence REAL NOT NULL,
		uploaded_at TEXT NOT NULL,
		size_kb REAL NOT NULL,
		extension TEXT NOT NULL,
		excerpt TEXT NOT NULL,
		extraction_failed INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(position);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Init ensures the ultimo_id row exists.
func (s *SQLiteStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('ultimo_id', 0)
		 ON CONFLICT(key) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("init meta: %w", err)
	}
	return nil
}

// Load reads all records in insertion order. Query failures degrade to an
// empty index, matching the flat-file store's recovery contract.
func (s *SQLiteStore) Load(ctx context.Context) *models.Index {
	idx := models.NewIndex()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_name, stored_filename, storage_path, category,
		        confidence, uploaded_at, size_kb, extension, excerpt, extraction_failed
		 FROM documents ORDER BY position`)
	if err != nil {
		s.warnLoad(err)
		return idx
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.DocumentRecord
		var failed int
		if err := rows.Scan(&rec.ID, &rec.OriginalName, &rec.StoredFilename, &rec.StoragePath,
			&rec.Category, &rec.Confidence, &rec.UploadedAt, &rec.SizeKB,
			&rec.Extension, &rec.Excerpt, &failed); err != nil {
			s.warnLoad(err)
			return models.NewIndex()
		}
		rec.ExtractionFailed = failed != 0
		idx.Documents = append(idx.Documents, rec)
	}
	if err := rows.Err(); err != nil {
		s.warnLoad(err)
		return models.NewIndex()
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'ultimo_id'`).Scan(&idx.LastID); err != nil && err != sql.ErrNoRows {
		s.warnLoad(err)
	}
	return idx
}

func (s *SQLiteStore) warnLoad(err error) {
	if s.logger != nil {
		s.logger.Warn("sqlite index unreadable, starting empty", zap.Error(err))
	}
}

// Save replaces the persisted index with idx in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, idx *models.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, original_name, stored_filename, storage_path, category,
		                        confidence, uploaded_at, size_kb, extension, excerpt,
		                        extraction_failed, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range idx.Documents {
		failed := 0
		if rec.ExtractionFailed {
			failed = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.OriginalName, rec.StoredFilename,
			rec.StoragePath, rec.Category, rec.Confidence, rec.UploadedAt, rec.SizeKB,
			rec.Extension, rec.Excerpt, failed, i); err != nil {
			return fmt.Errorf("insert document %d: %w", rec.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('ultimo_id', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, idx.LastID); err != nil {
		return fmt.Errorf("save ultimo_id: %w", err)
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
