// Package cache is an injectable TTL cache used to memoize expensive
// aggregations. Callers depend on the Cache interface so tests can swap in
// the no-op implementation.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache stores opaque values under string keys with a TTL.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Invalidate(key string)
}

// Ristretto wraps a ristretto cache behind the Cache interface.
type Ristretto struct {
	inner *ristretto.Cache
}

// NewRistretto builds a cache sized for maxItems entries.
func NewRistretto(maxItems int64) (*Ristretto, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Ristretto{inner: inner}, nil
}

func (c *Ristretto) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

func (c *Ristretto) Set(key string, value any, ttl time.Duration) {
	c.inner.SetWithTTL(key, value, 1, ttl)
	// Wait for the set buffer to drain so a Get right after sees the value.
	c.inner.Wait()
}

func (c *Ristretto) Invalidate(key string) {
	c.inner.Del(key)
}

// Noop satisfies Cache without storing anything.
type Noop struct{}

func (Noop) Get(string) (any, bool)         { return nil, false }
func (Noop) Set(string, any, time.Duration) {}
func (Noop) Invalidate(string)              {}
