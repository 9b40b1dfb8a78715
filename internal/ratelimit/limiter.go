package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lunargate/lunargate/internal/kv"
	"go.uber.org/zap"
)

const windowTTL = 60 * time.Second

// Identity is the caller identity the limiter keys its windows by. It is
// recomputed per request from the inbound credential, never persisted.
type Identity struct {
	ID   string
	Tier Tier
}

// Anonymous is the identity applied when no valid credential is present.
var Anonymous = Identity{ID: "anonymous", Tier: TierAnonymous}

// Result describes the outcome of a quota check.
type Result struct {
	Allowed        bool
	Limit          int
	Remaining      int
	Count          int
	ResetInSeconds int
}

// Limiter enforces a per-identity, per-minute fixed-window quota. The window
// resets at clock-aligned minute boundaries with no cross-window carryover.
//
// The check-then-increment sequence is not atomic: two concurrent requests
// from the same identity can both read the same pre-increment count and both
// be admitted, overshooting the quota by one. Quota enforcement is an
// approximation, matching the store's last-writer-wins contract.
type Limiter struct {
	store  kv.Store
	quotas Quotas
	logger *zap.Logger
	now    func() time.Time
}

// NewLimiter creates a fixed-window limiter over the given store.
func NewLimiter(store kv.Store, quotas Quotas, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:  store,
		quotas: quotas,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the limiter's clock. For tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now

	return l
}

// Check evaluates the quota for identity and records the request. The quota
// is checked against the pre-increment count, so the request that brings the
// count to exactly the limit is the last one admitted in the window.
//
// Store failures fail open: a degraded store admits the request rather than
// blocking all traffic.
func (l *Limiter) Check(ctx context.Context, identity Identity) Result {
	limit := l.quotas.Limit(identity.Tier)
	now := l.now()
	key := windowKey(identity.ID, now)

	result := Result{
		Allowed:        true,
		Limit:          limit,
		Remaining:      limit,
		ResetInSeconds: secondsUntilReset(now),
	}

	value, found, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit read failed, failing open",
			zap.String("identity", identity.ID),
			zap.Error(err),
		)

		return result
	}

	count := 0

	if found {
		count, err = strconv.Atoi(value)
		if err != nil {
			l.logger.Warn("rate limit counter unparseable, failing open",
				zap.String("identity", identity.ID),
				zap.String("value", value),
			)
			count = 0
		}
	}

	result.Count = count

	if count >= limit {
		result.Allowed = false
		result.Remaining = 0

		return result
	}

	if err := l.store.Put(ctx, key, strconv.Itoa(count+1), windowTTL); err != nil {
		l.logger.Warn("rate limit write failed, failing open",
			zap.String("identity", identity.ID),
			zap.Error(err),
		)
	}

	result.Count = count + 1
	result.Remaining = limit - count - 1

	return result
}

// windowKey identifies the counter for one identity in one epoch minute.
func windowKey(id string, now time.Time) string {
	return fmt.Sprintf("rate_%s_%d", id, now.UnixMilli()/60000)
}

// secondsUntilReset is the time remaining in the current fixed window.
func secondsUntilReset(now time.Time) int {
	return int(60 - (now.UnixMilli()%60000)/1000)
}
