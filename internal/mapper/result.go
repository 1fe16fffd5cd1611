package mapper

import (
	"colmap/internal/diagnostic"
	"colmap/internal/match"
)

// Entry is the outcome for one payload key.
type Entry struct {
	// Key is the payload key as written in the document.
	Key string
	// Normalized is the form of Key that was compared.
	Normalized string
	// Column is the raw name of the matched column, empty when unmatched.
	Column string
	// Match records which tier decided and its score. For an unmatched key
	// the score is the best one seen by the last tier consulted.
	Match match.Match
}

// Label returns the matched column or match.NoMatchLabel.
func (e Entry) Label() string {
	if !e.Match.Matched() {
		return match.NoMatchLabel
	}

	return e.Column
}

// Result is the mapping of one payload onto one table.
type Result struct {
	// Entries follow the payload key order; every key appears exactly once.
	Entries     []Entry
	Diagnostics diagnostic.Diagnostics
}

// Mapping returns key -> column, with match.NoMatchLabel for unmatched keys.
func (r *Result) Mapping() map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key] = e.Label()
	}

	return out
}

// Count returns the number of entries decided by method.
func (r *Result) Count(method match.Method) int {
	n := 0

	for _, e := range r.Entries {
		if e.Match.Method == method {
			n++
		}
	}

	return n
}

// Unmatched returns the keys without a column, in payload order.
func (r *Result) Unmatched() []string {
	var keys []string

	for _, e := range r.Entries {
		if !e.Match.Matched() {
			keys = append(keys, e.Key)
		}
	}

	return keys
}
