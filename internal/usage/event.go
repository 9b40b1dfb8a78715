package usage

import "time"

const (
	// TopicRequestServed carries one event per admitted gateway request.
	TopicRequestServed = "gateway.request.served"

	// TopicRateLimited carries one event per rejected request.
	TopicRateLimited = "gateway.request.ratelimited"
)

// CacheStatus reports which cache branch served a request.
type CacheStatus string

const (
	CacheHit    CacheStatus = "hit"
	CacheMiss   CacheStatus = "miss"
	CacheBypass CacheStatus = "bypass"
)

// RequestServedEvent is emitted after a request has been answered.
type RequestServedEvent struct {
	RequestID      string      `json:"requestId"`
	Path           string      `json:"path"`
	Resource       string      `json:"resource"`
	IdentityID     string      `json:"identityId"`
	Tier           string      `json:"tier"`
	CacheStatus    CacheStatus `json:"cacheStatus"`
	DurationMillis int64       `json:"durationMillis"`
	ClientIP       string      `json:"clientIp"`
	UserAgent      string      `json:"userAgent"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

// RateLimitedEvent is emitted when the limiter rejects a request.
type RateLimitedEvent struct {
	RequestID      string    `json:"requestId"`
	Path           string    `json:"path"`
	IdentityID     string    `json:"identityId"`
	Tier           string    `json:"tier"`
	Count          int       `json:"count"`
	Limit          int       `json:"limit"`
	ResetInSeconds int       `json:"resetInSeconds"`
	OccurredAt     time.Time `json:"occurredAt"`
}
