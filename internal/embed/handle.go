package embed

import (
	"context"
	"io"
	"sync"
)

// Handle builds a provider on first use and reuses it for the life of the
// process. A failed build is remembered and returned on every call.
type Handle struct {
	build func(ctx context.Context) (Provider, error)

	once     sync.Once
	provider Provider
	err      error
}

// NewHandle returns a Handle that calls build at most once.
func NewHandle(build func(ctx context.Context) (Provider, error)) *Handle {
	return &Handle{build: build}
}

// Static returns a Handle around an already constructed provider.
func Static(p Provider) *Handle {
	return NewHandle(func(context.Context) (Provider, error) { return p, nil })
}

// Get returns the provider, building it if needed. The build does not inherit
// the cancellation of ctx, since its result outlives the calling request.
func (h *Handle) Get(ctx context.Context) (Provider, error) {
	h.once.Do(func() {
		h.provider, h.err = h.build(context.WithoutCancel(ctx))
	})

	return h.provider, h.err
}

// Close closes the provider if it was built and holds resources.
func (h *Handle) Close() error {
	// A handle closed before first use never builds.
	h.once.Do(func() {})

	if closer, ok := h.provider.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Embed implements Provider.
func (h *Handle) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}

	return p.Embed(ctx, texts)
}
