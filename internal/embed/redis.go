package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces colmap keys in a shared redis.
const DefaultRedisPrefix = "colmap:embed:"

// RedisStore is a Store backed by redis, so that several colmap processes
// share computed vectors. Keys are hashed; values are little-endian float32s.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to a single redis server.
func NewRedisStore(addr, password string, db int, prefix string, ttl time.Duration) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix, ttl)
}

// NewRedisStoreFromClient wraps an existing client. ttl 0 keeps keys forever.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, keys []string) (map[string][]float32, error) {
	if len(keys) == 0 {
		return map[string][]float32{}, nil
	}

	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = s.redisKey(k)
	}

	vals, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	out := make(map[string][]float32, len(keys))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}

		vec, err := decodeVector([]byte(str))
		if err != nil {
			continue
		}

		out[keys[i]] = vec
	}

	return out, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, entries map[string][]float32) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for k, vec := range entries {
		pipe.Set(ctx, s.redisKey(k), encodeVector(vec), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline set: %w", err)
	}

	return nil
}

func (s *RedisStore) redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return s.prefix + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(buf))
	}

	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}

	return vec, nil
}
