// Package cache stores registry responses between report runs.
//
// Within a single run every dependency is fetched at most once regardless of
// this package; a persistent cache additionally lets repeated runs (for
// example successive CI jobs on the same pull request) skip the registry.
//
// # Backends
//
//   - [FileCache]: JSON files under a directory, for local and CI use
//   - [RedisCache]: a shared Redis instance, for fleets of CI runners
//   - [NullCache]: caching disabled
//
// Keys are built with [PackumentKey] so that documents fetched with
// different credentials never share an entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
