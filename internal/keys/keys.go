// Package keys computes stable uint64 keys for in-memory maps and caches.
package keys

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// cacheKeyHasher implements a key hash using Hash64 for computing cache keys in a stable way.
type cacheKeyHasher struct {
	hasher *xxhash.Digest
}

// NewCacheKeyHasher returns a hasher for string values.
func NewCacheKeyHasher(xhash *xxhash.Digest) *cacheKeyHasher {
	return &cacheKeyHasher{hasher: xhash}
}

// WriteString writes the provided string to the hash.
func (c *cacheKeyHasher) WriteString(value string) error {
	// WriteString always returns nil error
	_, _ = c.hasher.WriteString(value)

	return nil
}

// Key returns the stableCacheKey that this key hash defines.
func (c cacheKeyHasher) Key() stableCacheKey {
	return stableCacheKey{
		stableSum: c.hasher.Sum64(),
	}
}

type stableCacheKey struct {
	stableSum uint64
}

// ToUInt64 returns the cache key in the form of a stable uint64 value.
func (key stableCacheKey) ToUInt64() uint64 {
	return key.stableSum
}

// String returns the cache key as a decimal string.
func (key stableCacheKey) String() string {
	return strconv.FormatUint(key.stableSum, 10)
}

// BucketKey computes the stable key for a rate-limit bucket identified by
// caller identity and route. The "/" separator keeps the written parts apart so
// that ("ab","c") and ("a","bc") never collide.
func BucketKey(identity, route string) string {
	hasher := NewCacheKeyHasher(xxhash.New())
	_ = hasher.WriteString(identity)
	_ = hasher.WriteString("/")
	_ = hasher.WriteString(route)
	return hasher.Key().String()
}
