package middleware

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Meta holds per-request metadata for logging and usage events.
type Meta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Start     time.Time
}

type metaKey struct{}

// ContextWithMeta adds request metadata to context.
func ContextWithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext extracts request metadata from context.
func MetaFromContext(ctx context.Context) Meta {
	if v, ok := ctx.Value(metaKey{}).(Meta); ok {
		return v
	}

	return Meta{}
}

// RequestMeta is a middleware that tags each request with an ID, the client
// IP, and the user agent.
func RequestMeta(newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := Meta{
			RequestID: newID(),
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Start:     time.Now(),
		}

		ctx = huma.WithContext(ctx, ContextWithMeta(ctx.Context(), meta))
		ctx.SetHeader("X-Request-Id", meta.RequestID)

		next(ctx)
	}
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// First IP is the original client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
