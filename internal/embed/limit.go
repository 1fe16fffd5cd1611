package embed

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to a remote provider.
type Limited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewLimited allows rps calls per second with the given burst. rps <= 0
// disables throttling.
func NewLimited(next Provider, rps float64, burst int) *Limited {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}

	if burst < 1 {
		burst = 1
	}

	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Embed implements Provider. It waits for a token or for ctx to end.
func (l *Limited) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return l.next.Embed(ctx, texts)
}
