package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"colmap/internal/diagnostic"
	"colmap/internal/mapper"
	"colmap/internal/match"
)

func sampleResult() *mapper.Result {
	res := &mapper.Result{Entries: []mapper.Entry{
		{Key: "CustomerId", Normalized: "customer_id", Column: "customer_id",
			Match: match.Match{Method: match.MethodFuzzy, Score: 100, Index: 0}},
		{Key: "JoinDate", Normalized: "join_date", Column: "signup_date",
			Match: match.Match{Method: match.MethodSemantic, Score: 0.81234, Index: 1}},
		{Key: "Region", Normalized: "region", Match: match.NoMatch(31.6)},
	}}
	res.Diagnostics.AddWarning(diagnostic.CodeNoMatch, `key "Region" matched no column`, "Region", "referrer_code")

	return res
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "TABLE": FormatTable, "json": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestFromResult(t *testing.T) {
	rep := FromResult(sampleResult())

	require.Len(t, rep.Mapping, 3)
	assert.Equal(t, Row{JSONProperty: "CustomerId", MatchedColumn: "customer_id", Method: match.MethodFuzzy, Score: 100}, rep.Mapping[0])
	assert.InDelta(t, 0.812, rep.Mapping[1].Score, 1e-9)
	assert.Equal(t, match.NoMatchLabel, rep.Mapping[2].MatchedColumn)
	require.Len(t, rep.Diagnostics, 1)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromResult(sampleResult()), FormatJSON))

	var got struct {
		Mapping []struct {
			JSONProperty  string  `json:"json_property"`
			MatchedColumn string  `json:"matched_column"`
			Method        string  `json:"method"`
			Score         float64 `json:"score"`
		} `json:"mapping"`
		Diagnostics []map[string]any `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Mapping, 3)
	assert.Equal(t, "fuzzy", got.Mapping[0].Method)
	assert.Equal(t, "semantic", got.Mapping[1].Method)
	assert.Equal(t, "none", got.Mapping[2].Method)
	assert.Equal(t, "no match", got.Mapping[2].MatchedColumn)
	assert.Equal(t, "warning", got.Diagnostics[0]["severity"])
}

func TestWrite_YAML(t *testing.T) {
	data, err := Marshal(FromResult(sampleResult()), FormatYAML)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))

	rows, ok := got["mapping"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 3)

	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CustomerId", first["json_property"])
	assert.Equal(t, "fuzzy", first["method"])
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromResult(sampleResult()), FormatTable))

	out := buf.String()
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "JSON PROPERTY"))
	assert.Contains(t, lines[2], "customer_id")
	assert.Contains(t, lines[2], "100.0")
	assert.Contains(t, lines[3], "0.812")
	assert.Contains(t, lines[4], "no match")
	assert.Contains(t, out, "warning: Region: [no_match]")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, WriteFile(FromResult(sampleResult()), FormatJSON, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
