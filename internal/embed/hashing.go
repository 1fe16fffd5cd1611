package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultHashingDimensions is the vector length of the hashing provider.
const DefaultHashingDimensions = 256

// Hashing embeds texts by feature-hashing their character trigrams and their
// underscore-separated words into a fixed number of buckets. The vectors are
// L2-normalized, so cosine similarity reflects shared n-grams and shared words.
// It needs no network and gives the same vector for the same text forever.
type Hashing struct {
	dims int
}

// NewHashing creates a Hashing provider. dims <= 0 selects
// DefaultHashingDimensions.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}

	return &Hashing{dims: dims}
}

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int {
	return h.dims
}

// Embed implements Provider.
func (h *Hashing) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return observe("hashing", texts, func() ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			out[i] = h.vector(t)
		}

		return out, nil
	})
}

func (h *Hashing) vector(text string) []float32 {
	vec := make([]float64, h.dims)
	text = strings.ToLower(text)

	padded := []rune("#" + text + "#")
	for i := 0; i+3 <= len(padded); i++ {
		h.add(vec, "g:"+string(padded[i:i+3]), 1)
	}

	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		h.add(vec, "w:"+word, 2)
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}

	out := make([]float32, h.dims)
	if norm == 0 {
		return out
	}

	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}

	return out
}

func (h *Hashing) add(vec []float64, feature string, weight float64) {
	hf := fnv.New64a()
	_, _ = hf.Write([]byte(feature))
	sum := hf.Sum64()

	bucket := int(sum % uint64(h.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}

	vec[bucket] += weight
}
