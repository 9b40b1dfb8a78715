package usage

import (
	"context"

	"go.uber.org/zap"
)

// NoopStore logs events instead of persisting them. Used when no database
// is configured.
type NoopStore struct {
	logger *zap.Logger
}

// NewNoopStore creates a logging no-op usage store.
func NewNoopStore(logger *zap.Logger) *NoopStore {
	return &NoopStore{logger: logger}
}

func (n *NoopStore) SaveRequestServed(_ context.Context, event *RequestServedEvent) error {
	n.logger.Info("request served",
		zap.String("requestId", event.RequestID),
		zap.String("resource", event.Resource),
		zap.String("identity", event.IdentityID),
		zap.String("cacheStatus", string(event.CacheStatus)),
		zap.Int64("durationMillis", event.DurationMillis),
	)

	return nil
}

func (n *NoopStore) SaveRateLimited(_ context.Context, event *RateLimitedEvent) error {
	n.logger.Info("request rate limited",
		zap.String("requestId", event.RequestID),
		zap.String("identity", event.IdentityID),
		zap.Int("count", event.Count),
		zap.Int("limit", event.Limit),
	)

	return nil
}

// Compile-time check.
var _ Store = (*NoopStore)(nil)
