package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-embedding-001"

// geminiBatchLimit is the maximum number of texts per EmbedContent call.
const geminiBatchLimit = 100

// GeminiConfig configures a Gemini backend. Model defaults to
// DefaultGeminiModel.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string

	// Dimensions truncates the output vectors when > 0.
	Dimensions int
}

// Gemini embeds texts with a Gemini embedding model.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.EmbedContentConfig
}

// NewGemini creates a Gemini backend. It fails without an API key.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	ec := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if cfg.Dimensions > 0 {
		dims := int32(cfg.Dimensions)
		ec.OutputDimensionality = &dims
	}

	return &Gemini{client: client, model: model, config: ec}, nil
}

// Embed implements Provider. Batches larger than the API limit are split.
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	return observe("gemini", texts, func() ([][]float32, error) {
		out := make([][]float32, 0, len(texts))

		for start := 0; start < len(texts); start += geminiBatchLimit {
			end := min(start+geminiBatchLimit, len(texts))

			vecs, err := g.embedBatch(ctx, texts[start:end])
			if err != nil {
				return nil, err
			}

			out = append(out, vecs...)
		}

		return out, nil
	})
}

func (g *Gemini) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, g.config)
	if err != nil {
		return nil, classifyGeminiErr(err)
	}

	vecs := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		if e == nil {
			vecs = append(vecs, nil)

			continue
		}

		vecs = append(vecs, e.Values)
	}

	if err := checkCount(texts, vecs); err != nil {
		return nil, &Error{Provider: "gemini", Err: err}
	}

	return vecs, nil
}

func classifyGeminiErr(err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider:  "gemini",
			Err:       err,
			Transient: apiErr.Code == 429 || apiErr.Code/100 == 5,
		}
	}

	return &Error{Provider: "gemini", Err: err, Transient: isNetTimeout(err)}
}
