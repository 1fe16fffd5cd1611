package match

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Distance computes the insertion/deletion edit distance between two strings.
// A substitution counts as one deletion plus one insertion, so the result is
// len(a) + len(b) - 2*LCS(a, b).
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	return distanceRunes([]rune(a), []rune(b))
}

// Ratio computes a normalized similarity score between 0 and 100.
// 100 means identical strings, 0 means no character in common.
// The score is: 100 * (len(a) + len(b) - distance) / (len(a) + len(b)).
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

func distanceRunes(a, b []rune) int {
	return levenshtein.DistanceForStrings(a, b, levenshtein.DefaultOptions)
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}

	return float64(total-distanceRunes(a, b)) * 100 / float64(total)
}
