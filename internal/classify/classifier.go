// Package classify assigns a taxonomy category to extracted text by keyword
// scoring. It is a static lookup table, not a learned model, so results are
// fully deterministic.
package classify

import "strings"

// Classify scores text and filename against the taxonomy and returns the
// winning category with a confidence in [0, 1].
//
// Per category: each keyword occurrence in the lowercased text adds 2, and a
// keyword appearing anywhere in the lowercased filename adds a flat 5. The
// first category with the maximum score wins; a total score of 0 falls back
// to "Otros" with confidence 0.3. Confidence is score/20 capped at 0.99, so
// certainty saturates around score 20.
func Classify(text, filename string) (string, float64) {
	textLower := strings.ToLower(text)
	nameLower := strings.ToLower(filename)

	bestName := ""
	bestScore := 0
	for _, cat := range Taxonomy {
		score := 0
		for _, kw := range cat.Keywords {
			score += 2 * strings.Count(textLower, kw)
			if strings.Contains(nameLower, kw) {
				score += 5
			}
		}
		if score > bestScore {
			bestScore = score
			bestName = cat.Name
		}
	}

	if bestScore == 0 {
		return FallbackCategory, FallbackConfidence
	}
	confidence := float64(bestScore) / 20
	if confidence > 0.99 {
		confidence = 0.99
	}
	return bestName, confidence
}
