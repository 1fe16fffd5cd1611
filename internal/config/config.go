// Package config loads colmap settings from defaults, an optional YAML file
// and COLMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"colmap/internal/ddl"
	"colmap/internal/embed"
	"colmap/internal/mapper"
	"colmap/internal/match"
)

// EnvPrefix is prepended to every environment override, e.g. COLMAP_LOG_LEVEL.
const EnvPrefix = "COLMAP"

// Config is the complete colmap configuration.
type Config struct {
	Matching  MatchingConfig  `mapstructure:"matching"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// MatchingConfig holds the default mapping options.
type MatchingConfig struct {
	UseSemantic    bool    `mapstructure:"use_semantic"`
	Threshold      float64 `mapstructure:"threshold"`
	FuzzyCutoff    float64 `mapstructure:"fuzzy_cutoff"`
	Scorer         string  `mapstructure:"scorer"`
	MaxSuggestions int     `mapstructure:"max_suggestions"`
	NaiveSplit     bool    `mapstructure:"naive_split"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	Provider   string      `mapstructure:"provider"`
	Model      string      `mapstructure:"model"`
	APIKey     string      `mapstructure:"api_key"`
	BaseURL    string      `mapstructure:"base_url"`
	Dimensions int         `mapstructure:"dimensions"`
	RateLimit  float64     `mapstructure:"rate_limit"`
	Burst      int         `mapstructure:"burst"`
	Cache      CacheConfig `mapstructure:"cache"`
}

// CacheConfig configures the in-process vector cache and the shared redis
// store behind it.
type CacheConfig struct {
	Size          int           `mapstructure:"size"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"matching.use_semantic":    true,
	"matching.threshold":       match.DefaultSemanticThreshold,
	"matching.fuzzy_cutoff":    match.DefaultFuzzyCutoff,
	"matching.scorer":          match.ScorerWRatio,
	"matching.max_suggestions": mapper.DefaultMaxSuggestions,
	"matching.naive_split":     false,

	"embedding.provider":             embed.BackendHashing,
	"embedding.model":                "",
	"embedding.api_key":              "",
	"embedding.base_url":             "",
	"embedding.dimensions":           0,
	"embedding.rate_limit":           0.0,
	"embedding.burst":                1,
	"embedding.cache.size":           embed.DefaultCacheSize,
	"embedding.cache.redis_addr":     "",
	"embedding.cache.redis_password": "",
	"embedding.cache.redis_db":       0,
	"embedding.cache.prefix":         embed.DefaultRedisPrefix,
	"embedding.cache.ttl":            "0s",

	"server.addr":            ":8080",
	"server.allowed_origins": []string{"*"},
	"server.read_timeout":    "15s",
	"server.write_timeout":   "60s",
	"server.max_body_bytes":  int64(1 << 20),

	"log.level":  "info",
	"log.format": "json",
}

// New returns a viper instance with colmap defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path into v when set, otherwise searches for colmap.yaml in the
// working directory and $HOME/.config/colmap. A missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("colmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/colmap")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Decode(v)
}

// Decode converts the settings held by v into a Config and validates them.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.MapperOptions().Validate(); err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}

	return &cfg, nil
}

// MapperOptions returns the default mapping options.
func (c *Config) MapperOptions() mapper.Options {
	return mapper.Options{
		UseSemantic:    c.Matching.UseSemantic,
		Threshold:      c.Matching.Threshold,
		FuzzyCutoff:    c.Matching.FuzzyCutoff,
		Scorer:         c.Matching.Scorer,
		MaxSuggestions: c.Matching.MaxSuggestions,
		DDL:            ddl.Options{Split: ddl.SplitFor(c.Matching.NaiveSplit)},
	}
}

// EmbedConfig returns the embedding provider configuration.
func (c *Config) EmbedConfig() embed.Config {
	e := c.Embedding

	return embed.Config{
		Provider:   e.Provider,
		Model:      e.Model,
		APIKey:     e.APIKey,
		BaseURL:    e.BaseURL,
		Dimensions: e.Dimensions,
		RateLimit:  e.RateLimit,
		Burst:      e.Burst,
		Cache: embed.CacheConfig{
			Size:          e.Cache.Size,
			RedisAddr:     e.Cache.RedisAddr,
			RedisPassword: e.Cache.RedisPassword,
			RedisDB:       e.Cache.RedisDB,
			Prefix:        e.Cache.Prefix,
			TTL:           e.Cache.TTL,
		},
	}
}
