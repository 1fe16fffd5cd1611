package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAI_RequiresKeyOrBaseURL(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	require.Error(t, err)

	o, err := NewOpenAI(OpenAIConfig{BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, string(o.model))
}

func TestOpenAI_EmbedOrdersByIndex(t *testing.T) {
	var got struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0, 1]},
				{"object": "embedding", "index": 0, "embedding": [1, 0]}
			],
			"model": "test-model",
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	vecs, err := o.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
	assert.Equal(t, []string{"first", "second"}, got.Input)
	assert.Equal(t, "test-model", got.Model)
}

func TestOpenAI_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusBadGateway, true},
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "test"}}`))
			}))
			defer srv.Close()

			o, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = o.Embed(context.Background(), []string{"a"})
			require.Error(t, err)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "openai", perr.Provider)
			assert.Equal(t, tt.transient, perr.Transient)
		})
	}
}

func TestOpenAI_EmptyInput(t *testing.T) {
	o, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	vecs, err := o.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}
