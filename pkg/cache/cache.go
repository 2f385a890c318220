// Package cache provides caching mechanisms for API responses
// to improve performance and reduce external API calls.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxItems bounds the cache when no explicit size is configured.
const DefaultMaxItems = 1000

// TTLCache is a thread-safe, size-bounded cache with time-based expiration.
// When full, the least recently used entry is evicted first.
type TTLCache struct {
	lru *expirable.LRU[string, any]
}

// NewTTLCache creates a new cache whose entries expire after ttl.
// maxItems specifies the maximum number of items before the least recently
// used are evicted; values <= 0 fall back to DefaultMaxItems.
func NewTTLCache(ttl time.Duration, maxItems int) *TTLCache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &TTLCache{
		lru: expirable.NewLRU[string, any](maxItems, nil, ttl),
	}
}

// Set adds an item to the cache with the configured TTL
func (c *TTLCache) Set(key string, value any) {
	c.lru.Add(key, value)
}

// Get retrieves an item from the cache
// Returns the item and a bool indicating if the item was found
func (c *TTLCache) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

// Count returns the number of unexpired items in the cache
func (c *TTLCache) Count() int {
	return c.lru.Len()
}

// Key builds a cache key from its parts. Parts are joined with a separator
// that cannot appear in URL query values, so distinct argument lists never
// collide.
func Key(parts ...string) string {
	return strings.Join(parts, "\x1f")
}
