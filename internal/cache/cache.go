// Package cache stores raw lookup responses keyed by the digits-only number.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache holds raw response bodies. A zero ttl on Set means the store's
// default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte, ttl time.Duration) error
	Delete(key string) error
}

// pruner is implemented by stores that keep expired entries around until
// asked to drop them
type pruner interface {
	Prune() (int, error)
}

// Key derives the cache key for a lookup. Field lookups get their own
// namespace so that JSON and plain-text answers never collide.
func Key(digits string, field ...string) string {
	raw := digits
	for _, f := range field {
		raw += "|" + f
	}
	hash := sha256.Sum256([]byte(raw))
	return "numinfo:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by the configuration values.
// An empty dir yields a memory-only cache.
func New(memoryTTL time.Duration, dir string, diskTTL time.Duration) Cache {
	if dir == "" {
		return NewMemoryCache(memoryTTL)
	}
	return NewLayeredCache(NewMemoryCache(memoryTTL), NewDiskCache(dir, diskTTL))
}

// Prune drops expired entries from stores that persist them and reports
// how many were removed. Other stores report zero.
func Prune(c Cache) (int, error) {
	if p, ok := c.(pruner); ok {
		return p.Prune()
	}
	return 0, nil
}
