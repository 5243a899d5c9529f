// Package cache memoizes stage results by content hash. A key is derived from
// the stage identity, its configuration and its input snapshot, so a hit is
// only possible when the computation would be identical.
package cache

import (
	"fmt"
	"sync/atomic"

	"gobioact/domain/core"
	"gobioact/internal/errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of stage results kept when no size is configured
const DefaultSize = 128

// Cache is a bounded, concurrency-safe memo of stage results. Concurrent
// requests for the same key run the computation once. Failed computations are
// not stored. Cached values are shared and must be treated as read-only.
type Cache struct {
	store  *lru.Cache[core.Hash, interface{}]
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// New creates a cache holding at most size entries
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	store, err := lru.New[core.Hash, interface{}](size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create stage cache of %d entries", size)
	}
	return &Cache{store: store}, nil
}

// Key derives the content address for a stage invocation
func Key(stageID string, config, input interface{}) (core.Hash, error) {
	return core.HashJSON(stageID, config, input)
}

// Do returns the cached value for key or computes it with fn. The boolean
// reports a cache hit.
func Do[T any](c *Cache, key core.Hash, fn func() (T, error)) (T, bool, error) {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.hits.Add(1)
			return typed, true, nil
		}
	}

	computed := false
	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		computed = true
		out, err := fn()
		if err != nil {
			return nil, err
		}
		c.store.Add(key, out)
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, false, errors.InternalError(fmt.Sprintf("cache entry %s has type %T", key.Short(), v))
	}
	if computed {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	return typed, !computed, nil
}

// Stats returns a snapshot of cache counters
func (c *Cache) Stats() Stats {
	return Stats{Entries: c.store.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Purge drops every entry
func (c *Cache) Purge() {
	c.store.Purge()
}
