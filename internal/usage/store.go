package usage

import "context"

// Store persists usage events for later reporting.
type Store interface {
	SaveRequestServed(ctx context.Context, event *RequestServedEvent) error
	SaveRateLimited(ctx context.Context, event *RateLimitedEvent) error
}
