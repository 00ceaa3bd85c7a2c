// internal/infrastructure/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrMiss indicates the key was not present in the cache backend.
var ErrMiss = errors.New("cache miss")

// Backend abstracts the raw key/value store behind the cache. Values are
// opaque serialized strings; derived data only, never the source of truth.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// redisBackend implements Backend on go-redis.
type redisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps a Redis client as a cache backend.
func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (b *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (b *redisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// DeletePattern removes every key matching pattern using SCAN so production
// instances are not blocked by KEYS.
func (b *redisBackend) DeletePattern(ctx context.Context, pattern string) error {
	iter := b.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return b.Delete(ctx, keys...)
}

// Cache is a JSON cache over a Backend. Backend failures never surface to
// callers of Wrap; reads degrade to the fetch closure.
type Cache struct {
	backend Backend
	logger  *logrus.Logger
}

// New creates a cache over the given backend.
func New(backend Backend, log *logrus.Logger) *Cache {
	return &Cache{backend: backend, logger: log}
}

// Get loads the value for key into dest. Returns ErrMiss when absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("unmarshal cached value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", key, err)
	}
	return c.backend.Set(ctx, key, string(raw), ttl)
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return c.backend.Delete(ctx, keys...)
}

// DeletePattern removes all keys matching pattern. Writers call this for
// every prefix that could hold derived stale values.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	return c.backend.DeletePattern(ctx, pattern)
}

// Invalidate is DeletePattern for several patterns at once; failures are
// logged and swallowed since a stale window bounded by TTL is acceptable.
func (c *Cache) Invalidate(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		if err := c.backend.DeletePattern(ctx, p); err != nil {
			c.logger.WithError(err).WithField("pattern", p).Warn("cache invalidation failed")
		}
	}
}

// Wrap is the read-through decorator: serve key from cache, otherwise call
// fetch and store the result. Any cache failure degrades to a direct fetch
// so cache unavailability is never a user-facing error.
func Wrap[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		c.logger.WithError(err).WithField("key", key).Warn("cache read failed, falling through")
	}

	fresh, err := fetch(ctx)
	if err != nil {
		return fresh, err
	}

	if err := c.Set(ctx, key, fresh, ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return fresh, nil
}
