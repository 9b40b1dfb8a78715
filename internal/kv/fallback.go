package kv

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FallbackStore wraps a durable store with an in-process fallback. When a
// durable operation fails with a transport error the operation is retried
// against the fallback instead of failing the request: a cache miss or a
// memory-only hit is preferable to failing the whole request.
type FallbackStore struct {
	durable  Store
	fallback Store
	logger   *zap.Logger
}

// NewFallbackStore creates a store that degrades to fallback when durable fails.
func NewFallbackStore(durable, fallback Store, logger *zap.Logger) *FallbackStore {
	return &FallbackStore{
		durable:  durable,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FallbackStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, found, err := f.durable.Get(ctx, key)
	if err == nil {
		return value, found, nil
	}

	f.logger.Warn("durable store get failed, using fallback",
		zap.String("key", key),
		zap.Error(err),
	)

	return f.fallback.Get(ctx, key)
}

func (f *FallbackStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := f.durable.Put(ctx, key, value, ttl); err != nil {
		f.logger.Warn("durable store put failed, using fallback",
			zap.String("key", key),
			zap.Error(err),
		)

		return f.fallback.Put(ctx, key, value, ttl)
	}

	return nil
}

// Compile-time check.
var _ Store = (*FallbackStore)(nil)
