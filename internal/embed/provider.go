package embed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"colmap/internal/metrics"
)

// Provider embeds a batch of texts. The result has one vector per input text,
// in input order, all of the same length. Implementations must be safe for
// concurrent use and deterministic for a given model version.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// Embed implements Provider.
func (f Func) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// Error reports a failed embedding call. It is fatal to the mapping request.
type Error struct {
	Provider string
	Err      error
	// Transient is set for rate limiting, server-side and network timeouts.
	Transient bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrCountMismatch is returned when a backend answers with a different number
// of vectors than texts were sent.
var ErrCountMismatch = errors.New("embedding count mismatch")

func checkCount(texts []string, vecs [][]float32) error {
	if len(vecs) != len(texts) {
		return fmt.Errorf("%w: sent %d texts, got %d vectors", ErrCountMismatch, len(texts), len(vecs))
	}

	return nil
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// observe runs one batched backend call and records its metrics.
func observe(name string, texts []string, call func() ([][]float32, error)) ([][]float32, error) {
	start := time.Now()

	metrics.EmbeddingRequests.WithLabelValues(name).Inc()
	metrics.EmbeddingTexts.WithLabelValues(name).Add(float64(len(texts)))

	vecs, err := call()

	metrics.EmbeddingLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EmbeddingErrors.WithLabelValues(name).Inc()
	}

	return vecs, err
}
