package embed

import (
	"context"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"

	"colmap/internal/logging"
	"colmap/internal/metrics"
)

// Store is a shared vector cache behind the in-process map.
type Store interface {
	// Get returns the vectors found for keys; missing keys are absent.
	Get(ctx context.Context, keys []string) (map[string][]float32, error)
	// Set stores the given vectors.
	Set(ctx context.Context, entries map[string][]float32) error
}

// DefaultCacheSize is the number of vectors kept in process when no size is
// configured.
const DefaultCacheSize = 10000

// Cache memoizes vectors per text for one model. Only texts not seen before are
// sent to the wrapped provider, in a single batch. The in-process set is an
// LRU of at most size vectors. Store failures are logged and otherwise
// ignored.
type Cache struct {
	next      Provider
	namespace string
	store     Store
	logger    logging.Logger

	mem *lru.Cache[string, []float32]
}

// NewCache wraps next. namespace identifies the model so that vectors of
// different models never mix; size <= 0 selects DefaultCacheSize; store may be
// nil.
func NewCache(next Provider, namespace string, size int, store Store, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}

	if size <= 0 {
		size = DefaultCacheSize
	}

	// lru.New only fails for a non-positive size.
	mem, _ := lru.New[string, []float32](size)

	return &Cache{
		next:      next,
		namespace: namespace,
		store:     store,
		logger:    logger,
		mem:       mem,
	}
}

// Len returns the number of vectors held in process.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// Close releases the store when it holds a connection.
func (c *Cache) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Embed implements Provider.
func (c *Cache) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	// Unique texts still missing, in first-seen order.
	var missing []string

	pending := make(map[string][]int)

	for i, t := range texts {
		if vec, ok := c.mem.Get(t); ok {
			out[i] = vec

			continue
		}

		if _, ok := pending[t]; !ok {
			missing = append(missing, t)
		}

		pending[t] = append(pending[t], i)
	}

	metrics.EmbeddingCacheHits.Add(float64(len(texts) - countIndexes(pending)))

	if len(missing) == 0 {
		return out, nil
	}

	fetched := c.fromStore(ctx, missing)

	var toEmbed []string
	for _, t := range missing {
		if _, ok := fetched[t]; !ok {
			toEmbed = append(toEmbed, t)
		}
	}

	metrics.EmbeddingCacheMisses.Add(float64(len(toEmbed)))

	if len(toEmbed) > 0 {
		vecs, err := c.next.Embed(ctx, toEmbed)
		if err != nil {
			return nil, err
		}

		if err := checkCount(toEmbed, vecs); err != nil {
			return nil, &Error{Provider: c.namespace, Err: err}
		}

		fresh := make(map[string][]float32, len(toEmbed))
		for i, t := range toEmbed {
			fresh[t] = vecs[i]
			fetched[t] = vecs[i]
		}

		c.toStore(ctx, fresh)
	}

	for _, t := range missing {
		c.mem.Add(t, fetched[t])
	}

	for t, idxs := range pending {
		for _, i := range idxs {
			out[i] = fetched[t]
		}
	}

	return out, nil
}

func (c *Cache) key(text string) string {
	return c.namespace + "\x00" + text
}

func (c *Cache) fromStore(ctx context.Context, texts []string) map[string][]float32 {
	found := make(map[string][]float32, len(texts))
	if c.store == nil {
		return found
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	hits, err := c.store.Get(ctx, keys)
	if err != nil {
		c.logger.Warn("embedding cache store read failed", "error", err)

		return found
	}

	for _, t := range texts {
		if vec, ok := hits[c.key(t)]; ok {
			found[t] = vec
		}
	}

	return found
}

func (c *Cache) toStore(ctx context.Context, vecs map[string][]float32) {
	if c.store == nil || len(vecs) == 0 {
		return
	}

	entries := make(map[string][]float32, len(vecs))
	for t, vec := range vecs {
		entries[c.key(t)] = vec
	}

	if err := c.store.Set(ctx, entries); err != nil {
		c.logger.Warn("embedding cache store write failed", "error", err)
	}
}

func countIndexes(m map[string][]int) int {
	n := 0
	for _, idxs := range m {
		n += len(idxs)
	}

	return n
}
