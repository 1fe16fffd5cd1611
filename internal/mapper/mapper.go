package mapper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"colmap/internal/common"
	"colmap/internal/ddl"
	"colmap/internal/diagnostic"
	"colmap/internal/embed"
	"colmap/internal/logging"
	"colmap/internal/match"
	"colmap/internal/metrics"
	"colmap/internal/payload"
)

// Mapper runs the two-tier matching policy. It is safe for concurrent use.
type Mapper struct {
	provider embed.Provider
	logger   logging.Logger
	// scorer overrides Options.Scorer when set.
	scorer match.Scorer
}

// New creates a Mapper. provider may be nil when semantic matching is never
// requested; an *embed.Handle defers provider construction to first use.
func New(provider embed.Provider, logger logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Mapper{
		provider: provider,
		logger:   logger,
	}
}

// Map extracts the columns of the first CREATE TABLE statement in ddlText and
// the top-level keys of jsonText, then maps the keys. Both inputs are
// validated before any matching; when either is invalid the errors are joined
// and no mapping is returned.
func (m *Mapper) Map(ctx context.Context, ddlText, jsonText string, opts Options) (*Result, error) {
	columns, ddlErr := ddl.ExtractColumnsWith(ddlText, opts.DDL)
	if ddlErr != nil {
		metrics.MappingErrors.WithLabelValues("ddl").Inc()
	}

	keys, jsonErr := payload.Keys([]byte(jsonText))
	if jsonErr != nil {
		metrics.MappingErrors.WithLabelValues("json").Inc()
	}

	if err := errors.Join(ddlErr, jsonErr); err != nil {
		return nil, err
	}

	return m.MapKeys(ctx, keys, columns, opts)
}

// MapKeys maps every key onto at most one column. The result preserves key
// order; a column may be chosen by several keys.
func (m *Mapper) MapKeys(ctx context.Context, keys, columns []string, opts Options) (*Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		metrics.MappingErrors.WithLabelValues("options").Inc()
		return nil, err
	}

	if common.IsEmpty(columns) {
		metrics.MappingErrors.WithLabelValues("columns").Inc()
		return nil, ErrNoColumns
	}

	scorer := m.scorerFor(opts)
	normCols := match.NormalizeAll(columns)
	res := &Result{Entries: make([]Entry, len(keys))}

	reportDuplicateColumns(&res.Diagnostics, columns, normCols)

	// Entries the fuzzy tier rejected, retried semantically.
	var pending []int

	for i, key := range keys {
		norm := match.Normalize(key)
		best, _ := match.BestBy(norm, normCols, scorer)

		entry := Entry{Key: key, Normalized: norm, Match: match.NoMatch(best.Score)}

		switch {
		case best.Score > opts.FuzzyCutoff:
			entry.Match = match.Match{Method: match.MethodFuzzy, Score: best.Score, Index: best.Index}
			entry.Column = columns[best.Index]
		case opts.UseSemantic:
			pending = append(pending, i)
		}

		res.Entries[i] = entry
	}

	if len(pending) > 0 {
		if err := m.matchSemantic(ctx, res, pending, columns, normCols, opts.Threshold); err != nil {
			metrics.MappingErrors.WithLabelValues("embedding").Inc()
			return nil, err
		}
	}

	for _, e := range res.Entries {
		metrics.KeysMapped.WithLabelValues(e.Match.Method.String()).Inc()

		if e.Match.Matched() {
			continue
		}

		res.Diagnostics.AddWarning(diagnostic.CodeNoMatch,
			fmt.Sprintf("key %q matched no column", e.Key),
			e.Key, suggest(scorer, e.Normalized, columns, normCols, opts.MaxSuggestions)...)
	}

	elapsed := time.Since(start)
	metrics.MappingDuration.Observe(elapsed.Seconds())

	m.logger.Debug("mapped payload keys",
		"keys", len(keys),
		"columns", len(columns),
		"fuzzy", res.Count(match.MethodFuzzy),
		"semantic", res.Count(match.MethodSemantic),
		"unmatched", res.Count(match.MethodNone),
		"duration", elapsed)

	return res, nil
}

// matchSemantic embeds all normalized columns in one batch and the pending
// keys in another, then picks the most similar column for each pending key.
func (m *Mapper) matchSemantic(
	ctx context.Context,
	res *Result,
	pending []int,
	columns, normCols []string,
	threshold float64,
) error {
	if m.provider == nil {
		return ErrNoProvider
	}

	colVecs, err := m.embed(ctx, normCols)
	if err != nil {
		return fmt.Errorf("embed columns: %w", err)
	}

	texts := make([]string, len(pending))
	for i, idx := range pending {
		texts[i] = res.Entries[idx].Normalized
	}

	keyVecs, err := m.embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed keys: %w", err)
	}

	for i, idx := range pending {
		entry := &res.Entries[idx]
		fuzzy := entry.Match.Score

		best, ok, err := match.BestSemantic(keyVecs[i], colVecs, threshold)
		if err != nil {
			return fmt.Errorf("semantic match for key %q: %w", entry.Key, err)
		}

		if !ok {
			entry.Match = match.NoMatch(best.Score)

			continue
		}

		entry.Match = match.Match{Method: match.MethodSemantic, Score: best.Score, Index: best.Index}
		entry.Column = columns[best.Index]

		res.Diagnostics.AddInfo(diagnostic.CodeSemanticMatch,
			fmt.Sprintf("matched %q by similarity %.3f (best fuzzy score %.1f)", entry.Column, best.Score, fuzzy),
			entry.Key)
	}

	return nil
}

// embed calls the provider and checks the shape of the answer. Failures are
// reported as *embed.Error.
func (m *Mapper) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := m.provider.Embed(ctx, texts)
	if err != nil {
		var perr *embed.Error
		if errors.As(err, &perr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, &embed.Error{Provider: "embedding", Err: err}
	}

	if len(vecs) != len(texts) {
		return nil, &embed.Error{
			Provider: "embedding",
			Err:      fmt.Errorf("%w: sent %d texts, got %d vectors", embed.ErrCountMismatch, len(texts), len(vecs)),
		}
	}

	return vecs, nil
}

// scorerFor resolves the fuzzy scorer. opts has been validated.
func (m *Mapper) scorerFor(opts Options) match.Scorer {
	if m.scorer != nil {
		return m.scorer
	}

	scorer, _ := match.ScorerByName(opts.Scorer)

	return scorer
}

// suggest returns the raw names of the n columns closest to key. Columns that
// share a word with the key rank ahead of those that do not.
func suggest(scorer match.Scorer, key string, columns, normCols []string, n int) []string {
	if n <= 0 {
		return nil
	}

	words := make(map[string]bool)
	for _, w := range match.Tokens(key) {
		words[w] = true
	}

	shares := make([]bool, len(normCols))
	for i, c := range normCols {
		for _, w := range match.Tokens(c) {
			if words[w] {
				shares[i] = true

				break
			}
		}
	}

	ranked := match.RankBy(key, normCols, scorer)
	sort.SliceStable(ranked, func(i, j int) bool {
		return shares[ranked[i].Index] && !shares[ranked[j].Index]
	})

	top := ranked.Top(n)

	names := make([]string, len(top))
	for i, c := range top {
		names[i] = columns[c.Index]
	}

	return names
}

func reportDuplicateColumns(diags *diagnostic.Diagnostics, columns, normCols []string) {
	first := make(map[string]int, len(normCols))

	for i, n := range normCols {
		j, seen := first[n]
		if !seen {
			first[n] = i

			continue
		}

		if j == -1 {
			continue
		}

		diags.AddInfo(diagnostic.CodeDuplicateColumn,
			fmt.Sprintf("columns %q and %q normalize to %q; the first one is preferred", columns[j], columns[i], n),
			"")

		first[n] = -1
	}
}
