// Package cache provides a small in-memory TTL cache used for lookup data
// (account name resolution) that changes rarely but is read on every
// operation. The clock is injectable so tests can drive expiry directly.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Overridable in tests.
type Clock func() time.Time

// entry wraps a cached value with the time it was fetched.
type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is a string-keyed TTL cache. Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[V]
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides the cache's clock.
func WithClock[V any](now Clock) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// New creates a cache whose entries expire ttl after they were stored.
// A non-positive ttl disables caching entirely (every Get misses).
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key if it is still fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.ttl <= 0 || c.now().Sub(e.fetchedAt) >= c.ttl {
		if ok {
			delete(c.entries, key)
		}
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores a value for key, stamping it with the current time.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.now()}
}

// Invalidate removes a key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
