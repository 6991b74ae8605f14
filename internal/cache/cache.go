// Package cache provides a small read-through JSON cache over Redis for the
// aggregate statistics endpoints. The cache is optional: a nil *Cache is
// valid and simply computes every value fresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "stats_cache:"

// Cache wraps a go-redis client for best-effort aggregate caching.
type Cache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewClient creates a Redis client from a URL (e.g., "redis://localhost:6379")
// and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	rdb.AddHook(&MetricsHook{})
	rdb.AddHook(NewBreakerHook())

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// New creates a Cache with the given entry TTL. rdb may not be nil; callers
// that run without Redis should hold a nil *Cache instead.
func New(rdb *goredis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetOrCompute returns the cached value under key, or runs compute and
// caches its result. Redis failures are logged and degrade to a fresh
// compute; they never fail the request.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return compute(ctx)
	}

	fullKey := keyPrefix + key

	data, err := c.rdb.Get(ctx, fullKey).Bytes()
	if err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("Failed to unmarshal cached value, recomputing", "key", key)
	} else if !errors.Is(err, goredis.Nil) {
		slog.Warn("Redis cache GET failed, recomputing", "key", key, "error", err)
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	// Populate cache (best-effort)
	if encoded, err := json.Marshal(value); err == nil {
		if err := c.rdb.Set(ctx, fullKey, encoded, c.ttl).Err(); err != nil {
			slog.Warn("Failed to populate Redis cache", "key", key, "error", err)
		}
	}

	return value, nil
}
