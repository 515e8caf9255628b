package prefstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces preference keys.
const DefaultRedisPrefix = "lingoseo:lang:"

// RedisStore keeps preferences in Redis.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string        // e.g. "redis://localhost:6379/0"
	TTL       time.Duration // 0 = no expiration
	KeyPrefix string        // default DefaultRedisPrefix
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get returns the stored language. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores lang, refreshing the TTL.
func (s *RedisStore) Set(ctx context.Context, key, lang string) error {
	return s.client.Set(ctx, s.keyPrefix+key, lang, s.ttl).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
