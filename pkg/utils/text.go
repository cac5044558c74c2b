package utils

import "math"

// TruncateRunes returns s truncated to at most n runes. Counting runes rather
// than bytes keeps accented Spanish text from being cut mid-character.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Round2 rounds x to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds x to 1 decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
