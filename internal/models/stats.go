package models

// Statistics is the read-side aggregate over the whole store.
type Statistics struct {
	Total            int            `json:"total"`
	ByCategory       map[string]int `json:"by_category"`
	ByMonth          map[string]int `json:"by_month"`
	TotalSizeMB      float64        `json:"total_size_mb"`
	AvgConfidencePct float64        `json:"avg_confidence_pct"`
}
