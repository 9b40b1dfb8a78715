package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lunargate/lunargate/internal/cache"
	"github.com/lunargate/lunargate/internal/lunarcrush"
	"github.com/lunargate/lunargate/internal/messaging"
	"github.com/lunargate/lunargate/internal/middleware"
	"github.com/lunargate/lunargate/internal/usage"
	"go.uber.org/zap"
)

// Upstream is the slice of the LunarCrush client the gateway proxies.
type Upstream interface {
	TopicsList(ctx context.Context) ([]lunarcrush.TopicSummary, error)
	Topic(ctx context.Context, topic string) (*lunarcrush.TopicDetail, error)
	CoinsList(ctx context.Context, symbols []string, limit int) ([]lunarcrush.Coin, error)
	Coin(ctx context.Context, symbol string) (*lunarcrush.Coin, error)
}

// Gateway handles the proxied read operations: quota has already been
// checked by middleware, so each handler only runs the cache facade in front
// of the upstream call and reports usage.
type Gateway struct {
	upstream      Upstream
	cache         *cache.Facade
	publishServed messaging.Publish[usage.RequestServedEvent]
	logger        *zap.Logger
}

// NewGateway creates a gateway handler.
func NewGateway(
	upstream Upstream,
	facade *cache.Facade,
	publishServed messaging.Publish[usage.RequestServedEvent],
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		upstream:      upstream,
		cache:         facade,
		publishServed: publishServed,
		logger:        logger,
	}
}

func (g *Gateway) ListTopics(ctx context.Context, req *ListTopicsRequest) (*ListTopicsResponse, error) {
	fetched := false
	fetch := func(ctx context.Context) ([]lunarcrush.TopicSummary, error) {
		fetched = true

		return g.upstream.TopicsList(ctx)
	}

	key := cache.Key("topics:list", nil)

	topics, err := cache.GetOrFetch(ctx, g.cache, key, fetch, cache.Options{TTLOverride: req.CacheTTL})
	if err != nil {
		return nil, g.upstreamError("topics list", err)
	}

	g.reportServed(ctx, "/topics", key, req.CacheTTL, fetched)

	resp := &ListTopicsResponse{}
	resp.Body.Data = topics

	return resp, nil
}

func (g *Gateway) GetTopic(ctx context.Context, req *GetTopicRequest) (*GetTopicResponse, error) {
	fetched := false
	fetch := func(ctx context.Context) (*lunarcrush.TopicDetail, error) {
		fetched = true

		return g.upstream.Topic(ctx, req.Topic)
	}

	key := cache.Key("topic", map[string]string{"topic": strings.ToLower(req.Topic)})

	topic, err := cache.GetOrFetch(ctx, g.cache, key, fetch, cache.Options{TTLOverride: req.CacheTTL})
	if err != nil {
		return nil, g.upstreamError("topic", err)
	}

	g.reportServed(ctx, "/topics/{topic}", key, req.CacheTTL, fetched)

	resp := &GetTopicResponse{}
	resp.Body.Data = topic

	return resp, nil
}

func (g *Gateway) ListCoins(ctx context.Context, req *ListCoinsRequest) (*ListCoinsResponse, error) {
	var symbols []string
	if req.Symbols != "" {
		symbols = strings.Split(req.Symbols, ",")
	}

	fetched := false
	fetch := func(ctx context.Context) ([]lunarcrush.Coin, error) {
		fetched = true

		return g.upstream.CoinsList(ctx, symbols, req.Limit)
	}

	params := map[string]string{}
	if req.Symbols != "" {
		params["symbols"] = strings.ToUpper(req.Symbols)
	}

	if req.Limit > 0 {
		params["limit"] = strconv.Itoa(req.Limit)
	}

	key := cache.Key("coins:list", params)

	coins, err := cache.GetOrFetch(ctx, g.cache, key, fetch, cache.Options{TTLOverride: req.CacheTTL})
	if err != nil {
		return nil, g.upstreamError("coins list", err)
	}

	g.reportServed(ctx, "/coins", key, req.CacheTTL, fetched)

	resp := &ListCoinsResponse{}
	resp.Body.Data = coins

	return resp, nil
}

func (g *Gateway) GetCoin(ctx context.Context, req *GetCoinRequest) (*GetCoinResponse, error) {
	fetched := false
	fetch := func(ctx context.Context) (*lunarcrush.Coin, error) {
		fetched = true

		return g.upstream.Coin(ctx, req.Symbol)
	}

	key := cache.Key("coin", map[string]string{"symbol": strings.ToUpper(req.Symbol)})

	coin, err := cache.GetOrFetch(ctx, g.cache, key, fetch, cache.Options{TTLOverride: req.CacheTTL})
	if err != nil {
		return nil, g.upstreamError("coin", err)
	}

	g.reportServed(ctx, "/coins/{symbol}", key, req.CacheTTL, fetched)

	resp := &GetCoinResponse{}
	resp.Body.Data = coin

	return resp, nil
}

// upstreamError maps an upstream failure to a structured client error.
// Upstream failures are never cached, so the next request retries.
func (g *Gateway) upstreamError(what string, err error) error {
	var upstreamErr *lunarcrush.UpstreamError
	if errors.As(err, &upstreamErr) {
		g.logger.Warn("upstream request failed",
			zap.String("resource", what),
			zap.Int("status", upstreamErr.StatusCode),
		)

		if upstreamErr.StatusCode == http.StatusNotFound {
			return huma.Error404NotFound("upstream has no such " + what)
		}

		return huma.Error502BadGateway("upstream error fetching "+what, err)
	}

	g.logger.Error("upstream request failed",
		zap.String("resource", what),
		zap.Error(err),
	)

	return huma.Error502BadGateway("failed to fetch " + what)
}

func (g *Gateway) reportServed(ctx context.Context, path, resource string, ttlOverride int, fetched bool) {
	meta := middleware.MetaFromContext(ctx)
	identity := middleware.IdentityFromContext(ctx)

	event := &usage.RequestServedEvent{
		RequestID:      meta.RequestID,
		Path:           path,
		Resource:       resource,
		IdentityID:     identity.ID,
		Tier:           string(identity.Tier),
		CacheStatus:    cacheStatus(ttlOverride, fetched),
		DurationMillis: time.Since(meta.Start).Milliseconds(),
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
		OccurredAt:     time.Now(),
	}

	if err := g.publishServed(event); err != nil {
		g.logger.Error("failed to publish usage event",
			zap.String("requestId", meta.RequestID),
			zap.Error(err),
		)
	}
}

func cacheStatus(ttlOverride int, fetched bool) usage.CacheStatus {
	switch {
	case cache.Bypasses(ttlOverride):
		return usage.CacheBypass
	case fetched:
		return usage.CacheMiss
	default:
		return usage.CacheHit
	}
}
