package match

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two embedding vectors differ in length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Cosine computes the cosine similarity of two vectors in [-1, 1].
// A zero vector has similarity 0 with everything.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64

	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// BestSemantic returns the candidate vector most similar to query.
// Ties keep the first candidate. The boolean reports whether the best
// similarity reached threshold; the best candidate is returned either way so
// callers can report how close it came.
func BestSemantic(query []float32, candidates [][]float32, threshold float64) (Candidate, bool, error) {
	if len(candidates) == 0 {
		return Candidate{Index: -1}, false, nil
	}

	best := Candidate{Index: -1, Score: math.Inf(-1)}

	for i, vec := range candidates {
		score, err := Cosine(query, vec)
		if err != nil {
			return Candidate{Index: -1}, false, fmt.Errorf("candidate %d: %w", i, err)
		}

		if score > best.Score {
			best = Candidate{Index: i, Score: score}
		}
	}

	return best, best.Score >= threshold, nil
}
