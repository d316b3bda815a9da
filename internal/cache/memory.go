package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process layer, one session's worth of answers
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a memory cache whose entries live for ttl.
// Expired entries are swept every 2*ttl, at least once a minute.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	sweep := min(max(2*ttl, time.Minute), time.Hour)
	if ttl == gocache.NoExpiration {
		sweep = 0
	}
	return &MemoryCache{items: gocache.New(ttl, sweep)}
}

// Get implements Cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

// Set implements Cache. A zero ttl is gocache.DefaultExpiration.
func (c *MemoryCache) Set(key string, body []byte, ttl time.Duration) error {
	c.items.Set(key, body, ttl)
	return nil
}

// Delete implements Cache
func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of stored entries, expired ones included until
// the next sweep
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
