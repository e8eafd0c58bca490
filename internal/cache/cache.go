// Package cache provides a small TTL cache used in front of rate-limited upstream APIs
// (GitHub, Hashnode, the blog backend). Only successful responses are stored.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Cache stores opaque values with a time-to-live.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Remember returns the cached value for key, or calls load and caches its result.
// Cache failures are logged and bypassed; load errors are returned as-is and never cached.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil || ttl <= 0 {
		return load(ctx)
	}

	if data, ok, err := c.Get(ctx, key); err != nil {
		slog.Warn("cache get failed", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := c.Set(ctx, key, data, ttl); err != nil {
			slog.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return value, nil
}
