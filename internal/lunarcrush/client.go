package lunarcrush

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public LunarCrush v4 API root.
const DefaultBaseURL = "https://lunarcrush.com/api4/public"

// UpstreamError is a non-2xx response from the upstream API. It is
// propagated unchanged to the caller and never cached.
type UpstreamError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("lunarcrush: %s: %s", e.Status, e.Message)
}

// Config holds the upstream connection settings.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client is a thin client for the LunarCrush REST API. Responses are
// pass-through DTOs; no domain logic lives here.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewClient creates an upstream client with retrying transport.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.RetryWaitMin = 250 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.Logger = nil

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// envelope is the upstream response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

func get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (T, error) {
	var zero T

	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return zero, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("upstream request", zap.String("endpoint", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("lunarcrush request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return zero, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var wrapped envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&wrapped); err != nil {
		return zero, fmt.Errorf("lunarcrush response undecodable: %w", err)
	}

	return wrapped.Data, nil
}

// TopicsList returns the trending social topics.
func (c *Client) TopicsList(ctx context.Context) ([]TopicSummary, error) {
	return get[[]TopicSummary](ctx, c, "/topics/list/v1", nil)
}

// Topic returns details for a single social topic.
func (c *Client) Topic(ctx context.Context, topic string) (*TopicDetail, error) {
	endpoint := "/topic/" + url.PathEscape(strings.ToLower(topic)) + "/v1"

	return get[*TopicDetail](ctx, c, endpoint, nil)
}

// CoinsList returns tracked coins, optionally filtered by symbol and capped.
func (c *Client) CoinsList(ctx context.Context, symbols []string, limit int) ([]Coin, error) {
	params := url.Values{}
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}

	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	return get[[]Coin](ctx, c, "/coins/list/v1", params)
}

// Coin returns market and social data for a single coin.
func (c *Client) Coin(ctx context.Context, symbol string) (*Coin, error) {
	endpoint := "/coins/" + url.PathEscape(strings.ToUpper(symbol)) + "/v1"

	return get[*Coin](ctx, c, endpoint, nil)
}
