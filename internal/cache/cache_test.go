package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestCache_HitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	c := New[[]string](time.Hour, clock)

	c.Set("all_tickets", []string{"ISD-1"})
	clock.Advance(59 * time.Minute)

	got, ok := c.Get("all_tickets")
	assert.True(t, ok)
	assert.Equal(t, []string{"ISD-1"}, got)
	assert.False(t, c.Expired("all_tickets"))
}

func TestCache_ExpiresByAgeOnly(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	c := New[int](time.Hour, clock)

	c.Set("k", 1)
	clock.Advance(time.Hour)

	_, ok := c.Get("k")
	assert.False(t, ok, "an entry exactly ttl old is expired")
	assert.True(t, c.Expired("k"))
}

func TestCache_SetRefreshesTimestamp(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	c := New[int](time.Hour, clock)

	c.Set("k", 1)
	clock.Advance(50 * time.Minute)
	c.Set("k", 2)
	clock.Advance(50 * time.Minute)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_Miss(t *testing.T) {
	c := New[int](time.Hour, nil)
	_, ok := c.Get("absent")
	assert.False(t, ok)
	assert.True(t, c.Expired("absent"))
}

func TestCache_Disabled(t *testing.T) {
	c := New[int](0, nil)
	c.Set("k", 1)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Enabled())
	assert.True(t, c.Expired("k"))

	var nilCache *Cache[int]
	_, ok = nilCache.Get("k")
	assert.False(t, ok)
	nilCache.Set("k", 1)
}
