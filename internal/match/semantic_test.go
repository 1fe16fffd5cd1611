package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBestSemantic(t *testing.T) {
	query := []float32{1, 1, 0}
	candidates := [][]float32{
		{0, 0, 1},
		{1, 0.9, 0},
		{1, 0, 0},
	}

	best, ok, err := BestSemantic(query, candidates, 0.6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, best.Index)
	assert.Greater(t, best.Score, 0.99)

	best, ok, err = BestSemantic(query, candidates, 0.9999)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, best.Index)
}

func TestBestSemantic_ThresholdIsInclusive(t *testing.T) {
	best, ok, err := BestSemantic([]float32{1, 0}, [][]float32{{1, 0}}, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, best.Index)
}

func TestBestSemantic_TieKeepsFirst(t *testing.T) {
	best, ok, err := BestSemantic([]float32{1, 0}, [][]float32{{0, 1}, {2, 0}, {3, 0}}, 0.5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, best.Index)
}

func TestBestSemantic_Empty(t *testing.T) {
	best, ok, err := BestSemantic([]float32{1}, nil, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, best.Index)
}

func TestBestSemantic_Mismatch(t *testing.T) {
	_, _, err := BestSemantic([]float32{1, 0}, [][]float32{{1, 0}, {1}}, 0.5)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
