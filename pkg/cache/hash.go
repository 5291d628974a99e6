package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// PackumentKey builds the cache key of a registry document. The registry
// URL is normalized so "https://r.example/" and "https://r.example" agree;
// the token only contributes its hash.
func PackumentKey(registryURL, name, authToken string) string {
	key := "packument:" + strings.TrimSuffix(registryURL, "/") + "/" + name
	if authToken != "" {
		key += "@" + Hash([]byte(authToken))[:16]
	}
	return key
}
