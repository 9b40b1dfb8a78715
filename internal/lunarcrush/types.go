package lunarcrush

// Pass-through DTOs for the upstream JSON. Field sets follow the public v4
// responses; unknown fields are dropped rather than modeled.

// TopicSummary is one entry of the trending topics list.
type TopicSummary struct {
	Topic           string  `json:"topic"`
	Title           string  `json:"title"`
	TopicRank       int     `json:"topic_rank"`
	Interactions24H float64 `json:"interactions_24h"`
	NumContributors int     `json:"num_contributors"`
	NumPosts        int     `json:"num_posts"`
}

// TopicDetail is the full record for one social topic.
type TopicDetail struct {
	Topic           string   `json:"topic"`
	Title           string   `json:"title"`
	TopicRank       int      `json:"topic_rank"`
	RelatedTopics   []string `json:"related_topics,omitempty"`
	Interactions24H float64  `json:"interactions_24h"`
	NumContributors int      `json:"num_contributors"`
	NumPosts        int      `json:"num_posts"`
	Trend           string   `json:"trend,omitempty"`
}

// Coin is market and social data for one tracked coin.
type Coin struct {
	ID               int     `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	PriceBTC         float64 `json:"price_btc,omitempty"`
	MarketCap        float64 `json:"market_cap,omitempty"`
	PercentChange1H  float64 `json:"percent_change_1h,omitempty"`
	PercentChange24H float64 `json:"percent_change_24h,omitempty"`
	Volume24H        float64 `json:"volume_24h,omitempty"`
	GalaxyScore      float64 `json:"galaxy_score,omitempty"`
	AltRank          int     `json:"alt_rank,omitempty"`
	SocialVolume24H  float64 `json:"social_volume_24h,omitempty"`
	Sentiment        float64 `json:"sentiment,omitempty"`
}
