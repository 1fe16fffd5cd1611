package match

import (
	"errors"
	"fmt"
	"sort"
)

// Confidence defaults for the two matching tiers.
const (
	// DefaultFuzzyCutoff is the fuzzy score a match must exceed to be accepted
	// without consulting the semantic tier.
	DefaultFuzzyCutoff = 85.0
	// DefaultSemanticThreshold is the minimum cosine similarity for a semantic match.
	DefaultSemanticThreshold = 0.6
	// NoMatchLabel is the display label for a key without a column.
	NoMatchLabel = "no match"
)

// Candidate is one scored column for a query identifier.
type Candidate struct {
	// Index is the position of the column in the candidate list.
	Index int
	// Name is the form of the column that was compared.
	Name string
	// Score is 0-100 for fuzzy candidates and -1..1 for semantic ones.
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Scorer scores a query against one candidate name. Higher is better.
type Scorer func(query, candidate string) float64

// Fuzzy scorer names.
const (
	ScorerWRatio = "wratio"
	ScorerRatio  = "ratio"
)

// ErrUnknownScorer is returned by ScorerByName for an unsupported name.
var ErrUnknownScorer = errors.New("unknown fuzzy scorer")

// ScorerByName returns the scorer registered under name. An empty name
// selects WRatio.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", ScorerWRatio:
		return WRatio, nil
	case ScorerRatio:
		return Ratio, nil
	default:
		return nil, fmt.Errorf("%w %q (want %s or %s)", ErrUnknownScorer, name, ScorerWRatio, ScorerRatio)
	}
}

// BestFuzzy returns the candidate with the highest WRatio against query.
// Ties keep the first candidate in iteration order. The boolean is false when
// there are no candidates.
func BestFuzzy(query string, candidates []string) (Candidate, bool) {
	return BestBy(query, candidates, WRatio)
}

// BestBy is BestFuzzy with a custom scorer.
func BestBy(query string, candidates []string, score Scorer) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{Index: -1}, false
	}

	best := Candidate{Index: -1}

	for i, c := range candidates {
		s := score(query, c)
		if best.Index < 0 || s > best.Score {
			best = Candidate{Index: i, Name: c, Score: s}
		}
	}

	return best, true
}

// RankFuzzy scores every candidate against query.
// Returns candidates sorted by score (descending), then by index.
func RankFuzzy(query string, candidates []string) CandidateList {
	return RankBy(query, candidates, WRatio)
}

// RankBy is RankFuzzy with a custom scorer.
func RankBy(query string, candidates []string, score Scorer) CandidateList {
	list := make(CandidateList, 0, len(candidates))
	for i, c := range candidates {
		list = append(list, Candidate{Index: i, Name: c, Score: score(query, c)})
	}

	sort.Sort(list)

	return list
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by index so earlier columns win ties.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Index < c[j].Index
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}
