package match

import (
	"math"
	"sort"
	"strings"
)

const (
	// unbaseScale weights the token ratios against the plain ratio.
	unbaseScale = 0.95
	// partialScale weights the partial ratios when one string is at least
	// 1.5 times longer than the other.
	partialScale = 0.9
	// longPartialScale replaces partialScale beyond a length ratio of 8.
	longPartialScale = 0.6
)

// WRatio is the weighted similarity used by the fuzzy tier, 0-100.
//
// Strings of similar length take the best of Ratio and the token ratios
// scaled by 0.95. When one string is at least 1.5 times longer, the best
// aligned substring also counts, scaled by 0.9 (0.6 beyond a length ratio of
// 8), so "email" scores 90 against "email_address". An empty string scores 0.
func WRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	la, lb := len([]rune(a)), len([]rune(b))
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	score := Ratio(a, b)

	if lenRatio < 1.5 {
		return math.Max(score, math.Max(TokenSortRatio(a, b), TokenSetRatio(a, b))*unbaseScale)
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longPartialScale
	}

	score = math.Max(score, PartialRatio(a, b)*scale)

	return math.Max(score, PartialTokenRatio(a, b)*unbaseScale*scale)
}

// PartialRatio is the best Ratio between the shorter string and any window
// of the longer one of the same length. Windows hanging over either end of
// the longer string are compared as well.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	switch {
	case len(ra) == 0 && len(rb) == 0:
		return 100
	case len(ra) == 0 || len(rb) == 0:
		return 0
	}

	needle, hay := ra, rb
	if len(needle) > len(hay) {
		needle, hay = hay, needle
	}

	score := bestWindow(needle, hay)
	if score != 100 && len(ra) == len(rb) {
		score = math.Max(score, bestWindow(hay, needle))
	}

	return score
}

// bestWindow slides needle over hay. Windows whose edge character does not
// occur in needle are skipped.
func bestWindow(needle, hay []rune) float64 {
	chars := make(map[rune]struct{}, len(needle))
	for _, r := range needle {
		chars[r] = struct{}{}
	}

	has := func(r rune) bool {
		_, ok := chars[r]
		return ok
	}

	n, h := len(needle), len(hay)
	best := 0.0

	consider := func(window []rune) bool {
		if r := ratioRunes(needle, window); r > best {
			best = r
		}

		return best == 100
	}

	for i := 1; i < n; i++ {
		if has(hay[i-1]) && consider(hay[:i]) {
			return best
		}
	}

	for i := 0; i < h-n; i++ {
		if has(hay[i]) && consider(hay[i:i+n]) {
			return best
		}
	}

	for i := h - n; i < h; i++ {
		if has(hay[i]) && consider(hay[i:]) {
			return best
		}
	}

	return best
}

// TokenSortRatio is Ratio over the whitespace-separated words of both
// strings, sorted.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the words both strings share against the words
// only one of them has. It is 100 when one word set contains the other.
func TokenSetRatio(a, b string) float64 {
	setA, setB := wordSet(a), wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common, onlyA, onlyB := splitSets(setA, setB)
	if len(common) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	diffA, diffB := sortedJoin(onlyA), sortedJoin(onlyB)
	sect := len([]rune(strings.Join(common, " ")))

	sep := 0
	if sect != 0 {
		sep = 1
	}

	lenA, lenB := len([]rune(diffA)), len([]rune(diffB))
	sectA, sectB := sect+sep+lenA, sect+sep+lenB

	score := 100.0
	if total := sectA + sectB; total > 0 {
		score = 100 - 100*float64(Distance(diffA, diffB))/float64(total)
	}

	if sect == 0 {
		return score
	}

	// The shared words joined with either remainder differ from the shared
	// words alone by that remainder and one separator.
	scoreA := 100 - 100*float64(sep+lenA)/float64(sect+sectA)
	scoreB := 100 - 100*float64(sep+lenB)/float64(sect+sectB)

	return math.Max(score, math.Max(scoreA, scoreB))
}

// PartialTokenRatio is PartialRatio over sorted words. Any shared word
// scores 100.
func PartialTokenRatio(a, b string) float64 {
	wordsA, wordsB := strings.Fields(a), strings.Fields(b)
	setA, setB := wordSet(a), wordSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common, onlyA, onlyB := splitSets(setA, setB)
	if len(common) > 0 {
		return 100
	}

	score := PartialRatio(sortedJoin(wordsA), sortedJoin(wordsB))
	if len(wordsA) == len(onlyA) && len(wordsB) == len(onlyB) {
		return score
	}

	return math.Max(score, PartialRatio(sortedJoin(onlyA), sortedJoin(onlyB)))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}

	return set
}

// splitSets returns the sorted intersection and the two sorted differences.
func splitSets(a, b map[string]struct{}) (common, onlyA, onlyB []string) {
	for w := range a {
		if _, ok := b[w]; ok {
			common = append(common, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}

	for w := range b {
		if _, ok := a[w]; !ok {
			onlyB = append(onlyB, w)
		}
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	return common, onlyA, onlyB
}

func sortedJoin(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)

	return strings.Join(sorted, " ")
}
