package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lunargate/lunargate/internal/auth"
	"github.com/lunargate/lunargate/internal/messaging"
	"github.com/lunargate/lunargate/internal/ratelimit"
	"github.com/lunargate/lunargate/internal/usage"
	"go.uber.org/zap"
)

type identityKey struct{}

// ContextWithIdentity adds the resolved caller identity to context.
func ContextWithIdentity(ctx context.Context, identity ratelimit.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) ratelimit.Identity {
	if v, ok := ctx.Value(identityKey{}).(ratelimit.Identity); ok {
		return v
	}

	return ratelimit.Anonymous
}

// RateLimit resolves the caller identity from the Authorization header and
// enforces the per-tier quota before the request reaches any handler. The
// resolved identity is stored in the request context; rejections carry the
// count, limit, and reset fields a 429 response needs.
func RateLimit(
	api huma.API,
	limiter *ratelimit.Limiter,
	verifier auth.Verifier,
	publishRateLimited messaging.Publish[usage.RateLimitedEvent],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		identity := auth.Resolve(ctx.Context(), verifier, ctx.Header("Authorization"))

		result := limiter.Check(ctx.Context(), identity)

		ctx.SetHeader("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		ctx.SetHeader("X-RateLimit-Reset", strconv.Itoa(result.ResetInSeconds))

		if !result.Allowed {
			meta := MetaFromContext(ctx.Context())

			logger.Warn("rate limit exceeded",
				zap.String("identity", identity.ID),
				zap.String("tier", string(identity.Tier)),
				zap.Int("count", result.Count),
				zap.Int("limit", result.Limit),
				zap.String("clientIp", meta.ClientIP),
			)

			event := &usage.RateLimitedEvent{
				RequestID:      meta.RequestID,
				Path:           operationPath(ctx),
				IdentityID:     identity.ID,
				Tier:           string(identity.Tier),
				Count:          result.Count,
				Limit:          result.Limit,
				ResetInSeconds: result.ResetInSeconds,
				OccurredAt:     time.Now(),
			}
			if err := publishRateLimited(event); err != nil {
				logger.Error("failed to publish rate limited event",
					zap.String("requestId", meta.RequestID),
					zap.Error(err),
				)
			}

			msg := fmt.Sprintf("rate limit exceeded: %d/%d requests this minute, resets in %ds",
				result.Count, result.Limit, result.ResetInSeconds)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		ctx = huma.WithContext(ctx, ContextWithIdentity(ctx.Context(), identity))

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
