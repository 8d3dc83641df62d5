// Package store implements the fetch cache: memoization of provider calls
// keyed by (function identity, arguments) with per-function time-to-live.
//
// Entries live in memory; an optional persistent tier (Postgres or files)
// keeps them across restarts. Expired entries are evicted lazily on read and
// by Purge.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Tier is a persistent backing store for cache payloads.
type Tier interface {
	Name() string
	// Load returns the payload and its expiry; found is false on a miss.
	Load(ctx context.Context, key string) (payload []byte, expiresAt time.Time, found bool, err error)
	Save(ctx context.Context, key string, payload []byte, expiresAt time.Time) error
	// Purge deletes entries that expired before now.
	Purge(ctx context.Context, now time.Time) error
	Clear(ctx context.Context) error
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	tier    Tier
	now     func() time.Time

	hits, misses int
}

// NewCache creates a cache. tier may be nil for memory only.
func NewCache(tier Tier) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		tier:    tier,
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Key builds the cache key of a call: function identity plus its arguments.
// Times are keyed by calendar date.
func Key(fn string, args ...interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			parts[i] = v.Format("2006-01-02")
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		default:
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return fn + "(" + strings.Join(parts, ",") + ")"
}

// Stats returns hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of live in-memory entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

func (c *Cache) lookup(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, value interface{}, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
}

func (c *Cache) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// Purge evicts expired entries from memory and the persistent tier.
func (c *Cache) Purge(ctx context.Context) error {
	c.mu.Lock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	if c.tier != nil {
		return c.tier.Purge(ctx, now)
	}
	return nil
}

// Clear drops every entry.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	if c.tier != nil {
		return c.tier.Clear(ctx)
	}
	return nil
}

// Memoize returns the cached result of key, or calls load and caches its
// result for ttl. Errors are never cached. Tier failures are logged and
// treated as misses.
func Memoize[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || ttl <= 0 {
		return load(ctx)
	}

	if v, ok := c.lookup(key); ok {
		if typed, ok := v.(T); ok {
			c.count(true)
			return typed, nil
		}
	}

	if c.tier != nil {
		payload, expiresAt, found, err := c.tier.Load(ctx, key)
		if err != nil {
			fmt.Printf("[CACHE] %s load failed for %s (ignored): %v\n", c.tier.Name(), key, err)
		} else if found && c.now().Before(expiresAt) {
			var typed T
			if err := json.Unmarshal(payload, &typed); err == nil {
				c.store(key, typed, expiresAt)
				c.count(true)
				return typed, nil
			}
			fmt.Printf("[CACHE] %s entry for %s unreadable, refetching\n", c.tier.Name(), key)
		}
	}

	c.count(false)
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	expiresAt := c.now().Add(ttl)
	c.store(key, value, expiresAt)

	if c.tier != nil {
		payload, err := json.Marshal(value)
		if err != nil {
			fmt.Printf("[CACHE] cannot encode %s for %s (ignored): %v\n", key, c.tier.Name(), err)
		} else if err := c.tier.Save(ctx, key, payload, expiresAt); err != nil {
			fmt.Printf("[CACHE] %s save failed for %s (ignored): %v\n", c.tier.Name(), key, err)
		}
	}
	return value, nil
}
