package analysis

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey derives the cache key for a normalized text and its source.
func CacheKey(normalized, source string) string {
	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
