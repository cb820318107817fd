package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/SAP-F-2025/gradebook/internal/cache"
)

// RedisStore keeps blobs in redis through the cache service. Keys are prefixed
// so several gradebooks can share a database.
type RedisStore struct {
	cache  cache.CacheService
	prefix string
}

func NewRedisStore(c cache.CacheService, prefix string) *RedisStore {
	return &RedisStore{cache: c, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	var raw json.RawMessage
	err := s.cache.Get(ctx, s.prefix+key, &raw)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

// Set stores the blob without expiry. The value must itself be JSON.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, s.prefix+key, json.RawMessage(value), 0)
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}
