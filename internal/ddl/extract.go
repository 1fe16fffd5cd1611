package ddl

import (
	"strings"
)

// SplitMode selects how the column-definition block is cut into fragments.
type SplitMode int

const (
	// SplitDepthAware splits only on commas at the top level of the block, so
	// DECIMAL(10,2) stays a single fragment. Table constraints are dropped
	// unless Options.KeepConstraints is set.
	SplitDepthAware SplitMode = iota
	// SplitNaive splits the raw block text on every comma and takes the first
	// word of each fragment, the way the legacy extractor did. Type arguments
	// such as "2)" in DECIMAL(10,2) come out as pseudo-columns.
	SplitNaive
)

// SplitFor returns SplitNaive when naive is set and SplitDepthAware otherwise.
func SplitFor(naive bool) SplitMode {
	if naive {
		return SplitNaive
	}

	return SplitDepthAware
}

// Options configures extraction.
type Options struct {
	Split SplitMode
	// KeepConstraints emits constraint fragments (PRIMARY KEY, CONSTRAINT, ...)
	// as columns named after their first word. Ignored by SplitNaive, which
	// always keeps them.
	KeepConstraints bool
}

// Column is one entry of the column-definition block.
type Column struct {
	// Name is the column name with quoting removed.
	Name string `json:"name" yaml:"name"`
	// Type is the remaining definition text, e.g. "VARCHAR(50) NOT NULL".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Table is the result of parsing a CREATE TABLE statement.
type Table struct {
	Name    string
	Columns []Column
}

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}

	return names
}

// constraintKeywords start a table-level constraint rather than a column.
var constraintKeywords = []string{
	"CONSTRAINT", "PRIMARY", "FOREIGN", "UNIQUE", "CHECK",
	"INDEX", "KEY", "FULLTEXT", "SPATIAL", "EXCLUDE",
}

// ExtractColumns returns the column names of the first CREATE TABLE statement
// in ddl, in declaration order. Duplicates are kept.
func ExtractColumns(ddl string) ([]string, error) {
	return ExtractColumnsWith(ddl, Options{})
}

// ExtractColumnsWith is ExtractColumns with explicit options.
func ExtractColumnsWith(ddl string, opts Options) ([]string, error) {
	t, err := ParseWith(ddl, opts)
	if err != nil {
		return nil, err
	}

	return t.Names(), nil
}

// Parse parses the first CREATE TABLE statement in ddl.
func Parse(ddl string) (*Table, error) {
	return ParseWith(ddl, Options{})
}

// ParseWith parses the first CREATE TABLE statement in ddl using opts.
func ParseWith(ddl string, opts Options) (*Table, error) {
	if strings.TrimSpace(ddl) == "" {
		return nil, errorf(-1, "empty statement")
	}

	tokens, err := lex(ddl)
	if err != nil {
		return nil, err
	}

	nameStart, err := findTableKeyword(tokens)
	if err != nil {
		return nil, err
	}

	name, open, err := readTableName(ddl, tokens, nameStart)
	if err != nil {
		return nil, err
	}

	closeIdx, err := findClose(tokens, open)
	if err != nil {
		return nil, err
	}

	table := &Table{Name: name}

	switch opts.Split {
	case SplitNaive:
		body := ddl[tokens[open].end:tokens[closeIdx].pos]
		table.Columns = splitNaive(body)
	default:
		table.Columns = splitDepthAware(ddl, tokens[open+1:closeIdx], opts.KeepConstraints)
	}

	return table, nil
}

// findTableKeyword locates CREATE [...] TABLE [IF NOT EXISTS] and returns the
// index of the first token of the table name.
func findTableKeyword(tokens []token) (int, error) {
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].is("CREATE") {
			continue
		}

		// Modifiers such as TEMPORARY, GLOBAL TEMPORARY or UNLOGGED may sit
		// between CREATE and TABLE.
		for j := i + 1; j < len(tokens) && tokens[j].kind == tokWord; j++ {
			if !tokens[j].is("TABLE") {
				continue
			}

			next := j + 1
			if next+2 < len(tokens) && tokens[next].is("IF") && tokens[next+1].is("NOT") && tokens[next+2].is("EXISTS") {
				next += 3
			}

			if next >= len(tokens) {
				return 0, errorf(tokens[j].end, "missing table name")
			}

			return next, nil
		}
	}

	return 0, errorf(-1, "no CREATE TABLE statement found")
}

// readTableName joins the name tokens up to the opening parenthesis of the
// column block. Tokens of a qualified name are adjacent, e.g. dbo.[Customers].
func readTableName(src string, tokens []token, start int) (string, int, error) {
	var name strings.Builder

	for i := start; i < len(tokens); i++ {
		t := tokens[i]

		switch t.kind {
		case tokLParen:
			if name.Len() == 0 {
				return "", 0, errorf(t.pos, "missing table name")
			}

			return name.String(), i, nil
		case tokWord, tokQuoted:
			if i > start && t.spaced {
				return "", 0, errorf(t.pos, "expected column definition block after table name, found %q", t.text)
			}

			name.WriteString(unquote(t.text))
		default:
			return "", 0, errorf(t.pos, "expected column definition block after table name, found %q", t.text)
		}
	}

	return "", 0, errorf(len(src), "no column definition block")
}

// findClose returns the index of the parenthesis closing tokens[open].
func findClose(tokens []token, open int) (int, error) {
	depth := 0

	for i := open; i < len(tokens); i++ {
		switch tokens[i].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i, nil
			}
		case tokSemicolon:
			return 0, errorf(tokens[i].pos, "column definition block is not closed before end of statement")
		}
	}

	return 0, errorf(tokens[open].pos, "unbalanced parenthesis in column definition block")
}

func splitDepthAware(src string, body []token, keepConstraints bool) []Column {
	var (
		columns []Column
		start   int
		depth   int
	)

	flush := func(frag []token) {
		if len(frag) == 0 {
			return
		}

		first := frag[0]
		if first.kind != tokWord && first.kind != tokQuoted {
			return
		}

		if first.kind == tokWord && !keepConstraints && isConstraint(first.text) {
			return
		}

		col := Column{Name: unquote(first.text)}
		if len(frag) > 1 {
			col.Type = strings.TrimSpace(src[frag[1].pos:frag[len(frag)-1].end])
		}

		columns = append(columns, col)
	}

	for i, t := range body {
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokComma:
			if depth == 0 {
				flush(body[start:i])
				start = i + 1
			}
		}
	}

	flush(body[start:])

	return columns
}

func splitNaive(body string) []Column {
	var columns []Column

	for _, frag := range strings.Split(body, ",") {
		parts := strings.Fields(frag)
		if len(parts) == 0 {
			continue
		}

		columns = append(columns, Column{
			Name: unquote(parts[0]),
			Type: strings.Join(parts[1:], " "),
		})
	}

	return columns
}

func isConstraint(word string) bool {
	for _, kw := range constraintKeywords {
		if strings.EqualFold(word, kw) {
			return true
		}
	}

	return false
}
