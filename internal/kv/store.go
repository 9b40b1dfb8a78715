package kv

import (
	"context"
	"time"
)

// Store defines the interface for key-value storage with TTL-based expiry.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported
	// via found=false with a nil error; errors are transport failures only.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put writes value under key with the given TTL. Concurrent writers to
	// the same key are not serialized; last writer wins.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}
