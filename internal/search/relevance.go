// Package search implements keyword relevance search over the document index.
package search

import (
	"sort"
	"strings"

	"github.com/intecdocs/docfinder/internal/models"
)

// Weights for where a term matches. A filename hit is worth more than a
// category hit, which is worth more than a hit in the text excerpt.
const (
	nameWeight     = 3
	categoryWeight = 2
	excerptWeight  = 1
)

// Score returns the relevance of one document for the term. Matching is
// case-insensitive substring; the term is expected lowercased already.
func Score(doc *models.DocumentRecord, term string) int {
	score := 0
	if strings.Contains(strings.ToLower(doc.OriginalName), term) {
		score += nameWeight
	}
	if strings.Contains(strings.ToLower(doc.Category), term) {
		score += categoryWeight
	}
	if strings.Contains(strings.ToLower(doc.Excerpt), term) {
		score += excerptWeight
	}
	return score
}

// Search returns every document matching the term, highest relevance first.
// Documents that match nowhere are excluded. Ties keep index order, so
// results are stable across calls.
func Search(index *models.Index, term string) []models.SearchHit {
	term = strings.ToLower(strings.TrimSpace(term))
	hits := []models.SearchHit{}
	if term == "" {
		return hits
	}
	for i := range index.Documents {
		if s := Score(&index.Documents[i], term); s > 0 {
			hits = append(hits, models.SearchHit{Document: index.Documents[i], Relevance: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	return hits
}
