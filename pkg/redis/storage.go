package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authguard/pkg/cache"
)

// Storage implements cache.Store on top of a go-redis client.
// Expiry is delegated to Redis (SET PX / PTTL); nothing is swept client side.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

var _ cache.Store = (*Storage)(nil)

// NewStorage wraps redisClient. Every key is prefixed with prefix.
func NewStorage(redisClient redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: redisClient, prefix: prefix}
}

// NewStorageFromConfig wraps redisClient using cfg.KeyPrefix.
func NewStorageFromConfig(redisClient redis.UniversalClient, cfg Config) *Storage {
	return NewStorage(redisClient, cfg.KeyPrefix)
}

// Get returns (nil, false, nil) for missing keys (redis.Nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores key-value with expiration. Zero or negative ttl means no expiration.
func (s *Storage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return s.db.Set(ctx, s.prefix+key, value, ttl).Err()
}

// Delete removes a key. Empty keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.db.Del(ctx, s.prefix+key).Err()
}

// Take reads and deletes key with GETDEL.
func (s *Storage) Take(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	val, err := s.db.GetDel(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// TTL maps PTTL replies onto the cache.Store contract:
// -2 (missing) becomes 0 and -1 (persistent) becomes cache.NoExpiration.
func (s *Storage) TTL(ctx context.Context, key string) (time.Duration, error) {
	if key == "" {
		return 0, nil
	}
	ttl, err := s.db.PTTL(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	switch {
	case ttl == -1:
		return cache.NoExpiration, nil
	case ttl < 0:
		return 0, nil
	default:
		return ttl, nil
	}
}

// Conn returns the underlying Redis client for advanced operations.
func (s *Storage) Conn() redis.UniversalClient {
	return s.db
}
