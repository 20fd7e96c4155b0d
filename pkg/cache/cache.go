// Package cache provides the negative-lookup cache of pomwalk.
//
// A walk asks the remote repository for many files that do not exist: parent
// aggregators ship no jar, and some coordinates are simply absent. The cache
// remembers those "not found" answers per URL so later runs skip the request.
// Files that do exist are never cached here; their presence in the local
// repository is the only validity test.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, the CLI default
//   - [RedisCache]: shared across machines, for teams running a mirror
//   - [NullCache]: disables caching (--no-cache)
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	misses := cache.NewScoped(c, "notfound:")
//	_ = misses.Set(ctx, url, nil, 24*time.Hour)
//	_, hit, _ := misses.Get(ctx, url)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry TTL.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Close releases resources held by the backend.
	Close() error
}
