// Package models defines core data structures for document records, queries, and statistics.
package models

// TimestampLayout is the string-sortable layout used for DocumentRecord.UploadedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// DocumentRecord is the persisted metadata for one ingested file.
// Records are immutable after creation; relevance annotations live on hits, not here.
type DocumentRecord struct {
	ID               int     `json:"id"`
	OriginalName     string  `json:"original_name"`
	StoredFilename   string  `json:"stored_filename"`
	StoragePath      string  `json:"storage_path"`
	Category         string  `json:"category"`
	Confidence       float64 `json:"confidence"`
	UploadedAt       string  `json:"uploaded_at"`
	SizeKB           float64 `json:"size_kb"`
	Extension        string  `json:"extension"`
	Excerpt          string  `json:"extracted_text_excerpt"`
	ExtractionFailed bool    `json:"extraction_failed,omitempty"`
}

// Index is the whole-store aggregate: every record plus the id counter.
// The on-disk JSON keys (documentos, ultimo_id) are the canonical contract
// other tooling reads; do not rename them.
type Index struct {
	Documents []DocumentRecord `json:"documentos"`
	LastID    int              `json:"ultimo_id"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Documents: []DocumentRecord{}, LastID: 0}
}

// SearchHit pairs a record with its transient relevance score.
// Relevance orders results and never gates inclusion by itself.
type SearchHit struct {
	Document  DocumentRecord `json:"document"`
	Relevance int            `json:"relevance"`
}
