package cache

import (
	"errors"
	"time"
)

// LayeredCache answers from memory and falls back to disk, so repeated
// numbers within a run never touch the filesystem twice
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache stacks memory over disk
func NewLayeredCache(memory *MemoryCache, disk *DiskCache) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk}
}

// Get implements Cache. Disk hits are copied into memory.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if body, ok := c.memory.Get(key); ok {
		return body, true
	}
	body, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	_ = c.memory.Set(key, body, 0)
	return body, true
}

// Set implements Cache. A zero ttl lets each layer apply its own default.
func (c *LayeredCache) Set(key string, body []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, body, ttl)
	return c.disk.Set(key, body, ttl)
}

// Delete implements Cache
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Prune drops expired disk entries
func (c *LayeredCache) Prune() (int, error) {
	return c.disk.Prune()
}
