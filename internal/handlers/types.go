package handlers

import "github.com/lunargate/lunargate/internal/lunarcrush"

// ListTopicsRequest asks for the trending topics list.
type ListTopicsRequest struct {
	CacheTTL int `doc:"Cache TTL override in seconds; below 60 bypasses the cache" header:"x-cache-ttl" required:"false"`
}

// ListTopicsResponse wraps the upstream topics list.
type ListTopicsResponse struct {
	Body struct {
		Data []lunarcrush.TopicSummary `json:"data"`
	}
}

// GetTopicRequest asks for one social topic.
type GetTopicRequest struct {
	Topic    string `doc:"Topic slug" example:"bitcoin" path:"topic"`
	CacheTTL int    `doc:"Cache TTL override in seconds; below 60 bypasses the cache" header:"x-cache-ttl" required:"false"`
}

// GetTopicResponse wraps one upstream topic.
type GetTopicResponse struct {
	Body struct {
		Data *lunarcrush.TopicDetail `json:"data"`
	}
}

// ListCoinsRequest asks for tracked coins.
type ListCoinsRequest struct {
	Symbols  string `doc:"Comma-separated symbols filter" example:"BTC,ETH" query:"symbols" required:"false"`
	Limit    int    `doc:"Maximum number of coins"        example:"10"      query:"limit"   required:"false"`
	CacheTTL int    `doc:"Cache TTL override in seconds; below 60 bypasses the cache" header:"x-cache-ttl" required:"false"`
}

// ListCoinsResponse wraps the upstream coins list.
type ListCoinsResponse struct {
	Body struct {
		Data []lunarcrush.Coin `json:"data"`
	}
}

// GetCoinRequest asks for one coin.
type GetCoinRequest struct {
	Symbol   string `doc:"Coin symbol" example:"BTC" path:"symbol"`
	CacheTTL int    `doc:"Cache TTL override in seconds; below 60 bypasses the cache" header:"x-cache-ttl" required:"false"`
}

// GetCoinResponse wraps one upstream coin.
type GetCoinResponse struct {
	Body struct {
		Data *lunarcrush.Coin `json:"data"`
	}
}
