package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when OpenAIConfig.Model is empty.
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

// OpenAIConfig configures an OpenAI or OpenAI-compatible backend. Model
// defaults to DefaultOpenAIModel.
type OpenAIConfig struct {
	APIKey string
	Model  string

	// BaseURL points the client at any OpenAI-compatible server, e.g.
	// http://localhost:11434/v1 for Ollama.
	BaseURL string

	// Dimensions truncates the output vectors when > 0 (text-embedding-3 only).
	Dimensions int
}

// OpenAI embeds texts through the OpenAI embeddings API.
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dims   int
}

// NewOpenAI creates an OpenAI backend. An API key is required unless BaseURL
// points at a compatible server.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	key := strings.TrimSpace(cfg.APIKey)
	base := strings.TrimSpace(cfg.BaseURL)

	if key == "" && base == "" {
		return nil, fmt.Errorf("openai: api key is required unless a base url is set")
	}

	cc := openai.DefaultConfig(key)
	if base != "" {
		cc.BaseURL = strings.TrimRight(base, "/")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cc),
		model:  openai.EmbeddingModel(model),
		dims:   cfg.Dimensions,
	}, nil
}

// Embed implements Provider.
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	return observe("openai", texts, func() ([][]float32, error) {
		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input:      texts,
			Model:      o.model,
			Dimensions: o.dims,
		})
		if err != nil {
			return nil, classifyOpenAIErr(err)
		}

		if len(resp.Data) != len(texts) {
			return nil, &Error{Provider: "openai", Err: checkCount(texts, make([][]float32, len(resp.Data)))}
		}

		vecs := make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vecs) || vecs[d.Index] != nil {
				return nil, &Error{Provider: "openai", Err: fmt.Errorf("unexpected embedding index %d", d.Index)}
			}

			vecs[d.Index] = d.Embedding
		}

		return vecs, nil
	})
}

func classifyOpenAIErr(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider:  "openai",
			Err:       err,
			Transient: apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode/100 == 5,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Provider:  "openai",
			Err:       err,
			Transient: reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode/100 == 5,
		}
	}

	return &Error{Provider: "openai", Err: err, Transient: isNetTimeout(err)}
}
