package diagnostic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Add(t *testing.T) {
	var d Diagnostics

	d.AddInfo(CodeSemanticMatch, "matched by meaning", "JoinDate")
	d.AddWarning(CodeNoMatch, "no column matched", "zzz", "a", "b")
	d.AddInfo(CodeDuplicateColumn, "duplicate", "")

	assert.Equal(t, 3, d.Len())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, SeverityWarning, all[0].Severity)
	assert.Equal(t, SeverityInfo, all[1].Severity)
	assert.Equal(t, "JoinDate", all[1].Key)
	assert.Equal(t, CodeDuplicateColumn, all[2].Code)
	assert.Equal(t, []string{"a", "b"}, all[0].Suggestions)
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: CodeNoMatch, Message: "no column matched", Key: "zip", Suggestions: []string{"zip_code"}}
	assert.Equal(t, "zip: [no_match] no column matched (did you mean zip_code?)", d.String())
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestSeverity_JSON(t *testing.T) {
	out, err := json.Marshal(Diagnostic{Severity: SeverityWarning, Code: "c", Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warning","code":"c","message":"m"}`, string(out))
	assert.Equal(t, "unknown", Severity(42).String())
}
