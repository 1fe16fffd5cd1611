package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"colmap/internal/common"
	"colmap/internal/diagnostic"
	"colmap/internal/mapper"
	"colmap/internal/match"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q: want table, json or yaml", s)
	}
}

// Row is one payload key and its outcome.
type Row struct {
	JSONProperty  string       `json:"json_property" yaml:"json_property"`
	MatchedColumn string       `json:"matched_column" yaml:"matched_column"`
	Method        match.Method `json:"method" yaml:"method"`
	Score         float64      `json:"score" yaml:"score"`
}

// Report is the serializable form of a mapping result.
type Report struct {
	Mapping     []Row                   `json:"mapping" yaml:"mapping"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics" yaml:"diagnostics,omitempty"`
}

// FromResult converts a mapping result. Unmatched keys get match.NoMatchLabel.
func FromResult(res *mapper.Result) *Report {
	rep := &Report{
		Mapping:     make([]Row, len(res.Entries)),
		Diagnostics: res.Diagnostics.All(),
	}

	for i, e := range res.Entries {
		rep.Mapping[i] = Row{
			JSONProperty:  e.Key,
			MatchedColumn: e.Label(),
			Method:        e.Match.Method,
			Score:         roundScore(e.Match),
		}
	}

	return rep
}

func roundScore(m match.Match) float64 {
	return math.Round(m.Score*1000) / 1000
}

// Write renders rep to w in the given format.
func Write(w io.Writer, rep *Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}

		return enc.Close()
	case FormatTable, "":
		return writeTable(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Marshal renders rep to bytes in the given format.
func Marshal(rep *Report, format Format) ([]byte, error) {
	var b strings.Builder
	if err := Write(&b, rep, format); err != nil {
		return nil, err
	}

	return []byte(b.String()), nil
}

// WriteFile writes rep to path in the given format.
func WriteFile(rep *Report, format Format, path string) error {
	data, err := Marshal(rep, format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	return nil
}

func writeTable(w io.Writer, rep *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	fmt.Fprintln(tw, "JSON PROPERTY\tMATCHED COLUMN\tMETHOD\tSCORE")
	fmt.Fprintln(tw, "-------------\t--------------\t------\t-----")

	for _, r := range rep.Mapping {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.JSONProperty, r.MatchedColumn, r.Method, formatScore(r))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if common.IsEmpty(rep.Diagnostics) {
		return nil
	}

	fmt.Fprintln(w)

	for _, d := range rep.Diagnostics {
		if _, err := fmt.Fprintf(w, "%s: %s\n", d.Severity, d); err != nil {
			return err
		}
	}

	return nil
}

func formatScore(r Row) string {
	switch r.Method {
	case match.MethodFuzzy:
		return fmt.Sprintf("%.1f", r.Score)
	case match.MethodSemantic:
		return fmt.Sprintf("%.3f", r.Score)
	default:
		return "-"
	}
}
