package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/lunargate/lunargate/internal/auth"
	"github.com/lunargate/lunargate/internal/cache"
	"github.com/lunargate/lunargate/internal/handlers"
	"github.com/lunargate/lunargate/internal/health"
	"github.com/lunargate/lunargate/internal/kv"
	"github.com/lunargate/lunargate/internal/lunarcrush"
	"github.com/lunargate/lunargate/internal/messaging"
	"github.com/lunargate/lunargate/internal/middleware"
	"github.com/lunargate/lunargate/internal/ratelimit"
	"github.com/lunargate/lunargate/internal/usage"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// KVPackage provides the key-value store the cache and limiter share: Redis
// as the durable store with an in-process fallback when Redis is degraded.
func KVPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (kv.Store, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return kv.NewFallbackStore(kv.NewRedisStore(client), kv.NewMemoryStore(), logger), nil
	})
}

// CachePackage provides the cache facade.
func CachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cache.Facade, error) {
		options := do.MustInvoke[*Options](i)
		store := do.MustInvoke[kv.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		defaultTTL := time.Duration(options.CacheTTLSeconds) * time.Second

		return cache.NewFacade(store, defaultTTL, logger), nil
	})
}

// RateLimitPackage provides the tiered fixed-window limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		store := do.MustInvoke[kv.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return ratelimit.NewLimiter(store, ratelimit.DefaultQuotas(), logger), nil
	})
}

// AuthPackage provides the bearer credential verifier.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (auth.Verifier, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewJWTVerifier(options.JWTSecret), nil
	})
}

// LunarCrushPackage provides the upstream client.
func LunarCrushPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*lunarcrush.Client, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return lunarcrush.NewClient(lunarcrush.Config{
			APIKey:  options.LunarCrushAPIKey,
			BaseURL: options.LunarCrushBaseURL,
		}, logger), nil
	})
}

// PublisherGroupPackage provides the usage-event publisher over Redis streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// PostgresPackage provides the pgx pool for usage metering.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), options.PostgresURL)
	})
}

// UsageStorePackage provides the usage store: Postgres when configured,
// otherwise a logging no-op.
func UsageStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (usage.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.PostgresURL == "" {
			return usage.NewNoopStore(logger), nil
		}

		pool := do.MustInvoke[*pgxpool.Pool](i)

		return usage.NewPostgresStore(pool), nil
	})
}

// ConsumerGroupPackage provides the usage consumers over Redis streams.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		store := do.MustInvoke[usage.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "usage",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		usage.RegisterConsumers(group, subscriber, store, logger)

		return group, nil
	})
}

// HTTPPackage provides the router and the configured huma API with all
// middleware and routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.Limiter](i)
		verifier := do.MustInvoke[auth.Verifier](i)
		facade := do.MustInvoke[*cache.Facade](i)
		upstream := do.MustInvoke[*lunarcrush.Client](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		publishServed := messaging.NewPublishFunc[usage.RequestServedEvent](
			publishers.Publisher(), usage.TopicRequestServed)
		publishRateLimited := messaging.NewPublishFunc[usage.RateLimitedEvent](
			publishers.Publisher(), usage.TopicRateLimited)

		newID, err := nanoid.Standard(12)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("LunarGate", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(newID),
			middleware.RateLimit(api, limiter, verifier, publishRateLimited, logger),
		)

		gateway := handlers.NewGateway(upstream, facade, publishServed, logger)
		handlers.RegisterRoutes(api, gateway)

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(redisClient)))

		return api, nil
	})
}
