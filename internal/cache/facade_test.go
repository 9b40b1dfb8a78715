package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunargate/lunargate/internal/cache"
	"github.com/lunargate/lunargate/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errUpstream = errors.New("upstream unavailable")

// recordingStore captures puts and can simulate transport errors.
type recordingStore struct {
	inner   *kv.MemoryStore
	puts    []recordedPut
	getErr  error
	putErr  error
}

type recordedPut struct {
	key   string
	value string
	ttl   time.Duration
}

func newRecordingStore() *recordingStore {
	return &recordingStore{inner: kv.NewMemoryStore()}
}

func (r *recordingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if r.getErr != nil {
		return "", false, r.getErr
	}

	return r.inner.Get(ctx, key)
}

func (r *recordingStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if r.putErr != nil {
		return r.putErr
	}

	r.puts = append(r.puts, recordedPut{key: key, value: value, ttl: ttl})

	return r.inner.Put(ctx, key, value, ttl)
}

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// countingFetch returns a fetch function that counts invocations.
func countingFetch(value payload) (func(context.Context) (payload, error), *int) {
	calls := 0

	return func(_ context.Context) (payload, error) {
		calls++

		return value, nil
	}, &calls
}

func TestGetOrFetch_HitAndMiss(t *testing.T) {
	t.Run("miss fetches and caches, hit does not fetch again", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, calls := countingFetch(payload{Name: "bitcoin", Score: 42})

		first, err := cache.GetOrFetch(context.Background(), facade, "topic:bitcoin", fetch, cache.Options{})
		require.NoError(t, err)

		second, err := cache.GetOrFetch(context.Background(), facade, "topic:bitcoin", fetch, cache.Options{})
		require.NoError(t, err)

		assert.Equal(t, 1, *calls, "fetch should run only on the miss")
		assert.Equal(t, first, second)
	})

	t.Run("writes under the namespaced key with the default ttl", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, _ := countingFetch(payload{Name: "bitcoin"})

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:bitcoin", fetch, cache.Options{})

		require.NoError(t, err)
		require.Len(t, store.puts, 1)
		assert.Equal(t, "v2:topic:bitcoin", store.puts[0].key)
		assert.Equal(t, cache.DefaultTTL, store.puts[0].ttl)
	})

	t.Run("distinct keys are cached independently", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())

		fetchA, callsA := countingFetch(payload{Name: "a"})
		fetchB, callsB := countingFetch(payload{Name: "b"})

		a, err := cache.GetOrFetch(context.Background(), facade, "topic:a", fetchA, cache.Options{})
		require.NoError(t, err)

		b, err := cache.GetOrFetch(context.Background(), facade, "topic:b", fetchB, cache.Options{})
		require.NoError(t, err)

		assert.Equal(t, "a", a.Name)
		assert.Equal(t, "b", b.Name)
		assert.Equal(t, 1, *callsA)
		assert.Equal(t, 1, *callsB)
	})
}

func TestGetOrFetch_TTLOverride(t *testing.T) {
	t.Run("override below 60 bypasses the cache", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, calls := countingFetch(payload{Name: "fresh"})

		for range 3 {
			_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch,
				cache.Options{TTLOverride: 59})
			require.NoError(t, err)
		}

		assert.Equal(t, 3, *calls, "bypass must invoke fetch every time")
		assert.Empty(t, store.puts, "bypass must never populate the cache")
	})

	t.Run("override 60 is used as the write ttl", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, _ := countingFetch(payload{})

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch,
			cache.Options{TTLOverride: 60})

		require.NoError(t, err)
		require.Len(t, store.puts, 1)
		assert.Equal(t, 60*time.Second, store.puts[0].ttl)
	})

	t.Run("override 1800 is used as the write ttl", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, _ := countingFetch(payload{})

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch,
			cache.Options{TTLOverride: 1800})

		require.NoError(t, err)
		require.Len(t, store.puts, 1)
		assert.Equal(t, 1800*time.Second, store.puts[0].ttl)
	})

	t.Run("override 1801 falls back to the default ttl", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, calls := countingFetch(payload{})

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch,
			cache.Options{TTLOverride: 1801})

		require.NoError(t, err)
		assert.Equal(t, 1, *calls, "out-of-band override must not bypass")
		require.Len(t, store.puts, 1)
		assert.Equal(t, cache.DefaultTTL, store.puts[0].ttl, "out-of-band override is not clamped")
	})

	t.Run("zero override means no override", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, _ := countingFetch(payload{})

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch, cache.Options{})

		require.NoError(t, err)
		require.Len(t, store.puts, 1)
		assert.Equal(t, cache.DefaultTTL, store.puts[0].ttl)
	})
}

func TestGetOrFetch_FetchFailure(t *testing.T) {
	t.Run("fetch error propagates and is not cached", func(t *testing.T) {
		store := newRecordingStore()
		facade := cache.NewFacade(store, 0, zap.NewNop())

		calls := 0
		fetch := func(_ context.Context) (payload, error) {
			calls++
			if calls == 1 {
				return payload{}, errUpstream
			}

			return payload{Name: "recovered"}, nil
		}

		_, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch, cache.Options{})
		require.ErrorIs(t, err, errUpstream)
		assert.Empty(t, store.puts, "failures must not be cached")

		// Next call finds the cache empty and fetches again.
		value, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch, cache.Options{})
		require.NoError(t, err)
		assert.Equal(t, "recovered", value.Name)
		assert.Equal(t, 2, calls)
	})
}

func TestGetOrFetch_StoreFailure(t *testing.T) {
	t.Run("get failure still returns the fetch result", func(t *testing.T) {
		store := newRecordingStore()
		store.getErr = errors.New("store unreachable")
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, calls := countingFetch(payload{Name: "fresh"})

		value, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch, cache.Options{})

		require.NoError(t, err)
		assert.Equal(t, "fresh", value.Name)
		assert.Equal(t, 1, *calls)
	})

	t.Run("put failure still returns the fetch result", func(t *testing.T) {
		store := newRecordingStore()
		store.putErr = errors.New("store unreachable")
		facade := cache.NewFacade(store, 0, zap.NewNop())
		fetch, _ := countingFetch(payload{Name: "fresh"})

		value, err := cache.GetOrFetch(context.Background(), facade, "topic:x", fetch, cache.Options{})

		require.NoError(t, err)
		assert.Equal(t, "fresh", value.Name)
	})
}
