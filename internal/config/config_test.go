package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colmap/internal/ddl"
	"colmap/internal/embed"
	"colmap/internal/mapper"
	"colmap/internal/match"
)

func TestDecode_Defaults(t *testing.T) {
	cfg, err := Decode(New())
	require.NoError(t, err)

	assert.Equal(t, mapper.DefaultOptions(), cfg.MapperOptions())
	assert.Equal(t, embed.BackendHashing, cfg.Embedding.Provider)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, embed.DefaultCacheSize, cfg.EmbedConfig().Cache.Size)
}

func TestDecode_Environment(t *testing.T) {
	t.Setenv("COLMAP_MATCHING_THRESHOLD", "0.75")
	t.Setenv("COLMAP_MATCHING_USE_SEMANTIC", "false")
	t.Setenv("COLMAP_EMBEDDING_PROVIDER", "openai")
	t.Setenv("COLMAP_EMBEDDING_CACHE_TTL", "1h")
	t.Setenv("COLMAP_LOG_FORMAT", "console")
	t.Setenv("COLMAP_MATCHING_SCORER", "ratio")

	cfg, err := Decode(New())
	require.NoError(t, err)

	opts := cfg.MapperOptions()
	assert.Equal(t, match.ScorerRatio, opts.Scorer)
	assert.InDelta(t, 0.75, opts.Threshold, 1e-9)
	assert.False(t, opts.UseSemantic)
	assert.Equal(t, "openai", cfg.EmbedConfig().Provider)
	assert.Equal(t, time.Hour, cfg.EmbedConfig().Cache.TTL)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matching:
  fuzzy_cutoff: 90
  naive_split: true
embedding:
  provider: gemini
  dimensions: 768
  rate_limit: 2.5
  cache:
    size: 500
    redis_addr: localhost:6379
server:
  addr: 127.0.0.1:9000
  allowed_origins: [https://example.com]
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	opts := cfg.MapperOptions()
	assert.InDelta(t, 90, opts.FuzzyCutoff, 1e-9)
	assert.Equal(t, ddl.SplitNaive, opts.DDL.Split)
	assert.True(t, opts.UseSemantic)

	ec := cfg.EmbedConfig()
	assert.Equal(t, embed.BackendGemini, ec.Provider)
	assert.Equal(t, 768, ec.Dimensions)
	assert.InDelta(t, 2.5, ec.RateLimit, 1e-9)
	assert.Equal(t, 500, ec.Cache.Size)
	assert.Equal(t, "localhost:6379", ec.Cache.RedisAddr)
	assert.Equal(t, embed.DefaultRedisPrefix, ec.Cache.Prefix)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_NoFileFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestDecode_InvalidMatching(t *testing.T) {
	t.Setenv("COLMAP_MATCHING_THRESHOLD", "2")

	_, err := Decode(New())

	var oerr *mapper.OptionsError
	require.ErrorAs(t, err, &oerr)
}
