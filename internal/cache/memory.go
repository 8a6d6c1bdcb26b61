package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lexplain/lexplain/internal/model"
)

// MemoryCache holds rewrites in memory with TTL eviction. Entries are whole
// Simplification values, so a hit restores the stats (source, reduction,
// word counts) along with the text.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// eviction sweep interval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached rewrite
func (c *MemoryCache) Get(key string) (model.Simplification, bool) {
	if val, found := c.cache.Get(key); found {
		if s, ok := val.(model.Simplification); ok {
			return s, true
		}
	}
	return model.Simplification{}, false
}

// Set stores a rewrite with the given TTL
func (c *MemoryCache) Set(key string, value model.Simplification, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes one rewrite from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all cached rewrites
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
