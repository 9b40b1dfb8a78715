package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lunargate/lunargate/internal/kv"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is used when no valid override is supplied.
	DefaultTTL = 120 * time.Second

	// MinOverrideTTL is the lowest accepted override. Overrides below it
	// bypass the cache entirely: callers asking for near-real-time data
	// should not receive stale hits.
	MinOverrideTTL = 60 * time.Second

	// MaxOverrideTTL is the highest accepted override. Overrides above it
	// fall back to the default TTL; they are not clamped.
	MaxOverrideTTL = 1800 * time.Second

	// namespace versions all keys so the physical store can be shared with
	// older deployments without collisions.
	namespace = "v2"
)

// Facade wraps an expensive fetch behind a key-value store with per-request
// TTL overrides. It is best-effort: concurrent misses for the same key each
// invoke the fetch independently and the last write wins, and a store failure
// never fails a request whose fetch would have succeeded.
type Facade struct {
	store      kv.Store
	defaultTTL time.Duration
	logger     *zap.Logger
}

// NewFacade creates a cache facade over the given store.
func NewFacade(store kv.Store, defaultTTL time.Duration, logger *zap.Logger) *Facade {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	return &Facade{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// Bypasses reports whether a TTL override in seconds falls below the
// accepted band and makes GetOrFetch skip the cache.
func Bypasses(ttlOverride int) bool {
	return ttlOverride > 0 && time.Duration(ttlOverride)*time.Second < MinOverrideTTL
}

// Options controls a single GetOrFetch call.
type Options struct {
	// TTLOverride is a caller-supplied TTL in seconds, typically from the
	// x-cache-ttl header. Zero means no override.
	TTLOverride int
}

// resolveTTL applies the override policy. The second return value reports
// whether the cache should be bypassed for this call.
func (f *Facade) resolveTTL(opts Options) (time.Duration, bool) {
	if opts.TTLOverride <= 0 {
		return f.defaultTTL, false
	}

	ttl := time.Duration(opts.TTLOverride) * time.Second

	switch {
	case ttl < MinOverrideTTL:
		return 0, true
	case ttl <= MaxOverrideTTL:
		return ttl, false
	default:
		return f.defaultTTL, false
	}
}

// GetOrFetch returns the cached value for key, or invokes fetch and caches
// its result. Fetch errors propagate unchanged and are never cached. Store
// errors are logged and treated as misses.
func GetOrFetch[T any](
	ctx context.Context,
	f *Facade,
	key string,
	fetch func(ctx context.Context) (T, error),
	opts Options,
) (T, error) {
	var zero T

	ttl, bypass := f.resolveTTL(opts)
	if bypass {
		f.logger.Debug("cache bypass",
			zap.String("key", key),
			zap.Int("ttlOverride", opts.TTLOverride),
		)

		return fetch(ctx)
	}

	fullKey := namespace + ":" + key

	cached, found, err := f.store.Get(ctx, fullKey)
	if err != nil {
		f.logger.Warn("cache read failed",
			zap.String("key", fullKey),
			zap.Error(err),
		)
	}

	if found {
		var value T
		if err := json.Unmarshal([]byte(cached), &value); err != nil {
			// A corrupt entry is treated as a miss; the next write
			// replaces it.
			f.logger.Warn("cache entry undecodable",
				zap.String("key", fullKey),
				zap.Error(err),
			)
		} else {
			f.logger.Debug("cache hit", zap.String("key", fullKey))

			return value, nil
		}
	}

	f.logger.Debug("cache miss", zap.String("key", fullKey))

	fresh, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(fresh)
	if err != nil {
		f.logger.Warn("cache encode failed",
			zap.String("key", fullKey),
			zap.Error(err),
		)

		return fresh, nil
	}

	if err := f.store.Put(ctx, fullKey, string(payload), ttl); err != nil {
		f.logger.Warn("cache write failed",
			zap.String("key", fullKey),
			zap.Error(err),
		)
	}

	return fresh, nil
}
