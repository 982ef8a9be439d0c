// Package cache is a time-boxed in-memory cache for query results.
//
// Entries expire only by age; nothing invalidates them early. A Cache is
// confined to a single report run and is not safe for concurrent use.
package cache

import "time"

// Clock abstracts time.Now so expiry is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

type entry[V any] struct {
	stored time.Time
	value  V
}

// Cache holds values keyed by string for a fixed time-to-live.
type Cache[V any] struct {
	ttl     time.Duration
	clock   Clock
	entries map[string]entry[V]
}

// New creates a cache. A non-positive ttl yields a cache that never hits.
// A nil clock means the wall clock.
func New[V any](ttl time.Duration, clock Clock) *Cache[V] {
	if clock == nil {
		clock = RealClock()
	}
	return &Cache[V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry[V]),
	}
}

// Enabled reports whether the cache can ever return a hit.
func (c *Cache[V]) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns the value for key if it is present and younger than the ttl.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}
	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the current clock time.
func (c *Cache[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}
	c.entries[key] = entry[V]{stored: c.clock.Now(), value: value}
}

// Expired reports whether key is absent or has outlived the ttl.
func (c *Cache[V]) Expired(key string) bool {
	if !c.Enabled() {
		return true
	}
	e, ok := c.entries[key]
	return !ok || c.expired(e)
}

func (c *Cache[V]) expired(e entry[V]) bool {
	return c.clock.Now().Sub(e.stored) >= c.ttl
}
