package storage

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CacheStore is the key-value surface the calculator uses. Implementations
// report "absent" separately from errors; the calculator treats errors as
// misses and never lets them surface.
type CacheStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value with a TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// RedisStore backs CacheStore with Redis.
type RedisStore struct {
	client goredis.UniversalClient
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
