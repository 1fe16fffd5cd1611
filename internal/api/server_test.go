package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colmap/internal/ddl"
	"colmap/internal/embed"
	"colmap/internal/mapper"
)

const testDDL = "CREATE TABLE Customers (customer_id INT, first_name VARCHAR(50), signup_date DATE)"

func newTestServer(provider embed.Provider) http.Handler {
	return NewServer(mapper.New(provider, nil), nil, Options{Defaults: mapper.DefaultOptions()}).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

type mapResponse struct {
	Mapping []struct {
		JSONProperty  string  `json:"json_property"`
		MatchedColumn string  `json:"matched_column"`
		Method        string  `json:"method"`
		Score         float64 `json:"score"`
	} `json:"mapping"`
	Diagnostics []struct {
		Code        string   `json:"code"`
		Key         string   `json:"key"`
		Suggestions []string `json:"suggestions"`
	} `json:"diagnostics"`
}

func TestMap_OK(t *testing.T) {
	h := newTestServer(embed.NewHashing(0))

	body := `{"ddl": "` + testDDL + `", "json": {"CustomerId": 1, "FirstName": "a", "Zzz": 0}, "use_semantic": false}`
	rec := do(t, h, http.MethodPost, "/v1/map", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var resp mapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Mapping, 3)
	assert.Equal(t, "CustomerId", resp.Mapping[0].JSONProperty)
	assert.Equal(t, "customer_id", resp.Mapping[0].MatchedColumn)
	assert.Equal(t, "fuzzy", resp.Mapping[0].Method)
	assert.Equal(t, "no match", resp.Mapping[2].MatchedColumn)
	assert.Equal(t, "none", resp.Mapping[2].Method)

	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "no_match", resp.Diagnostics[0].Code)
	assert.Equal(t, "Zzz", resp.Diagnostics[0].Key)
}

func TestMap_JSONAsString(t *testing.T) {
	h := newTestServer(nil)

	body := `{"ddl": "` + testDDL + `", "json": "[{\"first-name\": 1}]", "use_semantic": false}`
	rec := do(t, h, http.MethodPost, "/v1/map", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp mapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Mapping, 1)
	assert.Equal(t, "first_name", resp.Mapping[0].MatchedColumn)
}

func TestMap_BadInputsReportBoth(t *testing.T) {
	h := newTestServer(nil)

	rec := do(t, h, http.MethodPost, "/v1/map", `{"ddl": "SELECT 1", "json": "{oops"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 2)
	assert.Contains(t, resp.Details[0], "no CREATE TABLE statement found")
	assert.Contains(t, resp.Details[1], "malformed JSON input")
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
}

func TestMap_InvalidOptions(t *testing.T) {
	h := newTestServer(nil)

	rec := do(t, h, http.MethodPost, "/v1/map", `{"ddl": "`+testDDL+`", "json": {"a": 1}, "threshold": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMap_ProviderFailure(t *testing.T) {
	tests := []struct {
		name      string
		transient bool
		status    int
	}{
		{"permanent", false, http.StatusBadGateway},
		{"transient", true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(embed.Func(func(context.Context, []string) ([][]float32, error) {
				return nil, &embed.Error{Provider: "fake", Err: errors.New("down"), Transient: tt.transient}
			}))

			rec := do(t, h, http.MethodPost, "/v1/map", `{"ddl": "`+testDDL+`", "json": {"JoinDate": 1}}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMap_RequestOverridesNaiveSplit(t *testing.T) {
	defaults := mapper.DefaultOptions()
	defaults.UseSemantic = false
	defaults.DDL.Split = ddl.SplitNaive

	h := NewServer(mapper.New(nil, nil), nil, Options{Defaults: defaults}).Routes()
	table := "CREATE TABLE t (id INT, amount DECIMAL(10,2))"

	tests := []struct {
		name   string
		extra  string
		column string
	}{
		{"server default", ``, "2)"},
		{"switched off", `, "naive_split": false`, "no match"},
		{"switched on", `, "naive_split": true`, "2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/map", `{"ddl": "`+table+`", "json": {"2)": 1}`+tt.extra+`}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp mapResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.column, resp.Mapping[0].MatchedColumn)
		})
	}

	rec := do(t, h, http.MethodPost, "/v1/columns", `{"ddl": "`+table+`", "naive_split": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"2)"`)
}

func TestMap_ScorerOption(t *testing.T) {
	h := newTestServer(nil)
	body := `{"ddl": "CREATE TABLE t (email_address TEXT)", "json": {"Email": 1}, "use_semantic": false`

	rec := do(t, h, http.MethodPost, "/v1/map", body+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp mapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "email_address", resp.Mapping[0].MatchedColumn)

	rec = do(t, h, http.MethodPost, "/v1/map", body+`, "scorer": "ratio"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no match", resp.Mapping[0].MatchedColumn)

	rec = do(t, h, http.MethodPost, "/v1/map", body+`, "scorer": "jaro"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMap_InvalidBody(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodPost, "/v1/map", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMap_BodyTooLarge(t *testing.T) {
	h := NewServer(mapper.New(nil, nil), nil, Options{MaxBodyBytes: 16, Defaults: mapper.DefaultOptions()}).Routes()

	rec := do(t, h, http.MethodPost, "/v1/map", `{"ddl": "`+testDDL+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestColumns(t *testing.T) {
	h := newTestServer(nil)

	rec := do(t, h, http.MethodPost, "/v1/columns", `{"ddl": "CREATE TABLE t (id INT, amount DECIMAL(10,2), PRIMARY KEY (id))"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"table": "t", "columns": [{"name": "id", "type": "INT"}, {"name": "amount", "type": "DECIMAL(10,2)"}]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/v1/columns", `{"ddl": "DROP TABLE t"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeys(t *testing.T) {
	h := newTestServer(nil)

	rec := do(t, h, http.MethodPost, "/v1/keys", `{"json": {"b": 1, "a": 2}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"keys": ["b", "a"]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/v1/keys", `{"json": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(nil)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "colmap_http_requests_total")
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec := httptest.NewRecorder()
	newTestServer(nil).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(mapper.ErrNoColumns))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
