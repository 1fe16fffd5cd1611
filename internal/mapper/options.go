package mapper

import (
	"errors"
	"fmt"
	"math"

	"colmap/internal/ddl"
	"colmap/internal/match"
)

// DefaultMaxSuggestions is the number of columns suggested for an unmatched key.
const DefaultMaxSuggestions = 3

// ErrNoColumns is returned when the table has no columns to match against.
var ErrNoColumns = errors.New("no columns to match against")

// ErrNoProvider is returned when a key needs the semantic tier but the mapper
// was built without an embedding provider.
var ErrNoProvider = errors.New("semantic matching requested without an embedding provider")

// Options controls one mapping call.
type Options struct {
	// UseSemantic enables the embedding tier for keys the fuzzy tier rejects.
	UseSemantic bool
	// Threshold is the minimum cosine similarity for a semantic match, in [0, 1].
	Threshold float64
	// FuzzyCutoff is the fuzzy score a match must strictly exceed, in [0, 100].
	FuzzyCutoff float64
	// Scorer names the fuzzy scorer, match.ScorerWRatio (default) or
	// match.ScorerRatio.
	Scorer string
	// MaxSuggestions caps the columns suggested for unmatched keys (0 = none).
	MaxSuggestions int
	// DDL controls column extraction in Map.
	DDL ddl.Options
}

// DefaultOptions returns the default mapping options.
func DefaultOptions() Options {
	return Options{
		UseSemantic:    true,
		Threshold:      match.DefaultSemanticThreshold,
		FuzzyCutoff:    match.DefaultFuzzyCutoff,
		Scorer:         match.ScorerWRatio,
		MaxSuggestions: DefaultMaxSuggestions,
	}
}

// OptionsError reports an out-of-range or unknown option.
type OptionsError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	// Err replaces the range message for non-numeric options.
	Err error
}

func (e *OptionsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid option %s: %v", e.Field, e.Err)
	}

	return fmt.Sprintf("invalid option %s=%g: must be between %g and %g", e.Field, e.Value, e.Min, e.Max)
}

func (e *OptionsError) Unwrap() error {
	return e.Err
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return &OptionsError{Field: "threshold", Value: o.Threshold, Min: 0, Max: 1}
	}

	if math.IsNaN(o.FuzzyCutoff) || o.FuzzyCutoff < 0 || o.FuzzyCutoff > 100 {
		return &OptionsError{Field: "fuzzy_cutoff", Value: o.FuzzyCutoff, Min: 0, Max: 100}
	}

	if _, err := match.ScorerByName(o.Scorer); err != nil {
		return &OptionsError{Field: "scorer", Err: err}
	}

	if o.MaxSuggestions < 0 {
		return &OptionsError{Field: "max_suggestions", Value: float64(o.MaxSuggestions), Min: 0, Max: 100}
	}

	return nil
}
