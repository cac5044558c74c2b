// Package store persists the document index. All callers go through the Store
// interface; nothing else touches the index file directly.
package store

import (
	"context"

	"github.com/intecdocs/docfinder/internal/models"
)

// Store is the record store contract. Load never fails: a missing or corrupt
// index degrades to an empty one, so read paths always have something to work
// with. Save replaces the whole persisted index (document order preserved).
//
// There is no cross-process locking; two processes racing on
// load-modify-save can lose a record (last save wins). Within one process the
// ingest service serializes writers.
type Store interface {
	// Init idempotently ensures the storage location and an initial empty
	// index exist. Safe to call on every startup.
	Init(ctx context.Context) error
	// Load reads the persisted index, substituting a fresh empty index when
	// the persisted state is absent or unreadable.
	Load(ctx context.Context) *models.Index
	// Save persists the full index, overwriting the prior state.
	Save(ctx context.Context, idx *models.Index) error
	Close() error
}
