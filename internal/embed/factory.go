package embed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"colmap/internal/logging"
)

// redisPingTimeout bounds the connectivity check of the shared store.
const redisPingTimeout = 3 * time.Second

// Backend names accepted by Config.Provider.
const (
	BackendHashing = "hashing"
	BackendGemini  = "gemini"
	BackendOpenAI  = "openai"
)

// Config selects and configures the embedding backend.
type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int

	// RateLimit is the number of remote calls per second; 0 means unlimited.
	RateLimit float64
	Burst     int

	Cache CacheConfig
}

// CacheConfig configures the in-process cache and the optional redis store
// behind it.
type CacheConfig struct {
	// Size caps the vectors kept in process; 0 selects DefaultCacheSize.
	Size          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

// Namespace identifies the vector space produced by cfg.
func (cfg Config) Namespace() string {
	model := cfg.Model
	switch strings.ToLower(cfg.Provider) {
	case BackendGemini:
		if model == "" {
			model = DefaultGeminiModel
		}
	case BackendOpenAI:
		if model == "" {
			model = DefaultOpenAIModel
		}
	default:
		model = "fnv64a"
	}

	return strings.ToLower(cfg.Provider) + ":" + model + ":" + strconv.Itoa(cfg.Dimensions)
}

// New returns a Handle that builds the configured provider chain on first use:
// backend, then rate limiting for remote backends, then caching.
func New(cfg Config, logger logging.Logger) *Handle {
	if logger == nil {
		logger = logging.Nop()
	}

	return NewHandle(func(ctx context.Context) (Provider, error) {
		return Build(ctx, cfg, logger)
	})
}

// Build constructs the configured provider chain immediately.
func Build(ctx context.Context, cfg Config, logger logging.Logger) (Provider, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	if cfg.Provider == "" {
		cfg.Provider = BackendHashing
	}

	var (
		backend Provider
		remote  bool
	)

	switch strings.ToLower(cfg.Provider) {
	case BackendHashing:
		backend = NewHashing(cfg.Dimensions)
	case BackendGemini:
		g, err := NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}

		backend, remote = g, true
	case BackendOpenAI:
		o, err := NewOpenAI(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}

		backend, remote = o, true
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: want %s, %s or %s",
			cfg.Provider, BackendHashing, BackendGemini, BackendOpenAI)
	}

	if remote && cfg.RateLimit > 0 {
		backend = NewLimited(backend, cfg.RateLimit, cfg.Burst)
	}

	var store Store
	if cfg.Cache.RedisAddr != "" {
		store = connectRedis(ctx, cfg.Cache, logger)
	}

	logger.Info("embedding provider ready",
		"provider", cfg.Provider, "namespace", cfg.Namespace(), "shared_cache", store != nil)

	return NewCache(backend, cfg.Namespace(), cfg.Cache.Size, store, logger), nil
}

// connectRedis returns the shared store, or nil when redis does not answer a
// ping. The in-process cache works without it.
func connectRedis(ctx context.Context, cfg CacheConfig, logger logging.Logger) Store {
	rs := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Prefix, cfg.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rs.Ping(pingCtx); err != nil {
		logger.Warn("embedding cache redis unreachable, using in-process cache only",
			"addr", cfg.RedisAddr, "error", err)

		if cerr := rs.Close(); cerr != nil {
			logger.Debug("closing redis client", "error", cerr)
		}

		return nil
	}

	return rs
}
