// Package stats derives aggregate statistics from the document index.
package stats

import (
	"github.com/intecdocs/docfinder/internal/models"
	"github.com/intecdocs/docfinder/pkg/utils"
)

// Compute aggregates the whole index. It is a pure read-side derivation,
// recomputed on demand; collections are small enough that caching is not
// worth the invalidation bookkeeping.
func Compute(index *models.Index) models.Statistics {
	s := models.Statistics{
		Total:      len(index.Documents),
		ByCategory: map[string]int{},
		ByMonth:    map[string]int{},
	}

	var sizeKB, confidence float64
	for i := range index.Documents {
		doc := &index.Documents[i]
		s.ByCategory[doc.Category]++
		if len(doc.UploadedAt) >= 7 {
			s.ByMonth[doc.UploadedAt[:7]]++
		}
		sizeKB += doc.SizeKB
		confidence += doc.Confidence
	}

	s.TotalSizeMB = utils.Round2(sizeKB / 1024)
	if s.Total > 0 {
		s.AvgConfidencePct = utils.Round1(confidence / float64(s.Total) * 100)
	}
	return s
}
