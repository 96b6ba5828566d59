package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key builds a namespaced cache key of the form prefix:sha256(id).
// Hashing keeps keys safe for any backend regardless of what the id
// contains (URLs with slashes, query strings, unicode).
func Key(prefix, id string) string {
	return fmt.Sprintf("%s:%s", prefix, Hash([]byte(id)))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
