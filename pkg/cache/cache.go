// Package cache stores downloaded map data and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps entries under a directory, one JSON file per key,
//     written atomically. The CLI uses it by default.
//   - [RedisCache] shares entries between server instances.
//   - [NullCache] stores nothing; it backs --no-cache.
//
// Keys come from a [Keyer] so that every producer agrees on their shape.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs used by the pipeline.
const (
	OSMTTL      = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
	JobTTL      = 24 * time.Hour
)

// ErrCacheMiss is returned by Lookup when key has no live entry.
var ErrCacheMiss = errors.New("cache miss")

// Lookup is Get with a miss reported as ErrCacheMiss.
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrCacheMiss
	}
	return data, nil
}
