// Package query applies interpreted query parameters to the document index.
package query

import (
	"sort"
	"strings"

	"github.com/intecdocs/docfinder/internal/models"
)

// Run filters the index by the AND-composed parameters and ranks the matches
// by keyword hits. Filters gate inclusion; keywords only affect rank. Ties
// keep store order, so the same parameters over an unchanged index always
// produce the same ordering.
func Run(index *models.Index, params *models.QueryParameters) []models.SearchHit {
	hits := []models.SearchHit{}
	for i := range index.Documents {
		doc := &index.Documents[i]
		if !matches(doc, params) {
			continue
		}
		hits = append(hits, models.SearchHit{
			Document:  index.Documents[i],
			Relevance: keywordHits(doc, params.Keywords),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	return hits
}

// matches applies the inclusion filters. Date bounds compare the full
// "YYYY-MM-DD HH:MM:SS" timestamp against a "YYYY-MM-DD" bound as plain
// strings. Note the asymmetry: a record from the date_from day passes the
// lower bound, but any record from the date_to day compares greater than the
// bare date and is excluded from the upper bound.
func matches(doc *models.DocumentRecord, params *models.QueryParameters) bool {
	if params.Category != "" && doc.Category != params.Category {
		return false
	}
	if params.DateFrom != "" && doc.UploadedAt < params.DateFrom {
		return false
	}
	if params.DateTo != "" && doc.UploadedAt > params.DateTo {
		return false
	}
	if params.Extension != "" && !strings.HasSuffix(strings.ToLower(doc.Extension), strings.ToLower(params.Extension)) {
		return false
	}
	return true
}

// keywordHits counts how many of the keywords appear in the document's name
// or excerpt. Duplicate keywords count twice.
func keywordHits(doc *models.DocumentRecord, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}
	haystack := strings.ToLower(doc.OriginalName + doc.Excerpt)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			hits++
		}
	}
	return hits
}
