package match

//go:generate go tool stringer -type=Method -linecomment -output=method_string.go

// Method identifies which tier produced a match.
type Method int

const (
	MethodNone     Method = iota // none
	MethodFuzzy                  // fuzzy
	MethodSemantic               // semantic
)

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Match is the outcome of matching one key: which tier decided, the score in
// that tier's scale, and the chosen column index (-1 for MethodNone).
type Match struct {
	Method Method
	Score  float64
	Index  int
}

// NoMatch returns a Match carrying no column. The score is the best score the
// deciding tier saw, kept for reporting.
func NoMatch(score float64) Match {
	return Match{Method: MethodNone, Score: score, Index: -1}
}

// Matched returns true if a column was chosen.
func (m Match) Matched() bool {
	return m.Method != MethodNone && m.Index >= 0
}
