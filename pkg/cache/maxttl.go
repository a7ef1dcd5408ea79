package cache

import (
	"context"
	"time"
)

// MaxTTLCache wraps a backend and caps how long any entry may live.
// Deployments that want fresher data than the per-stage defaults set a
// single bound here instead of tuning each stage.
type MaxTTLCache struct {
	inner Cache
	max   time.Duration
}

// NewMaxTTLCache wraps inner so every Set uses at most max as its TTL.
// Unlimited entries (ttl 0) are capped too. A non-positive max returns
// inner unchanged.
func NewMaxTTLCache(inner Cache, max time.Duration) Cache {
	if max <= 0 {
		return inner
	}
	return &MaxTTLCache{inner: inner, max: max}
}

// Get retrieves the value stored under key.
func (c *MaxTTLCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, key)
}

// Set stores data under key with the capped TTL.
func (c *MaxTTLCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > c.max {
		ttl = c.max
	}
	return c.inner.Set(ctx, key, data, ttl)
}

// Delete removes the entry for key.
func (c *MaxTTLCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close releases the wrapped backend.
func (c *MaxTTLCache) Close() error { return c.inner.Close() }

var _ Cache = (*MaxTTLCache)(nil)
