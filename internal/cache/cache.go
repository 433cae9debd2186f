// Package cache provides TTL caching for fetched research pages.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface used by the research fetcher. Entries
// expire on their own; nothing evicts or flushes mid-run.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key derives a stable cache key from a URL. The version segment lets a
// format change invalidate old entries without a flush.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "atlas:v1:" + hex.EncodeToString(hash[:])
}
