package usage

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/lunargate/lunargate/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers wires one consumer per usage topic into the group, each
// persisting to the store.
func RegisterConsumers(
	group *messaging.ConsumerGroup,
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) {
	group.Add(messaging.NewConsumer(subscriber, TopicRequestServed,
		func(ctx context.Context, event *RequestServedEvent) error {
			return store.SaveRequestServed(ctx, event)
		}, logger))

	group.Add(messaging.NewConsumer(subscriber, TopicRateLimited,
		func(ctx context.Context, event *RateLimitedEvent) error {
			return store.SaveRateLimited(ctx, event)
		}, logger))
}
