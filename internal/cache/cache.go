package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores extracted article text keyed by URL so repeated candidates
// across query variants cost one fetch.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "echotrace:v1:" + hex.EncodeToString(hash[:])
}
