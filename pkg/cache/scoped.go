package cache

import (
	"context"
	"time"
)

// Scoped namespaces the keys of an inner cache with a prefix, so several
// kinds of entries can share one backend.
//
//	misses := cache.NewScoped(backend, "notfound:")
//	misses.Set(ctx, url, nil, ttl) // stored as "notfound:<url>"
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner with prefix. A nil inner behaves like [NullCache].
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NullCache{}
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get reads prefix+key from the inner cache.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set writes prefix+key to the inner cache.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes prefix+key from the inner cache.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Clear clears the whole inner cache.
func (s *Scoped) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

// Close closes the inner cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Cache = (*Scoped)(nil)
