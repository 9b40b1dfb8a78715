package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the proxied read operations.
func RegisterRoutes(api huma.API, gateway *Gateway) {
	huma.Register(api, huma.Operation{
		OperationID: "list-topics",
		Method:      http.MethodGet,
		Path:        "/topics",
		Summary:     "List trending topics",
		Description: "Returns the trending social topics, served from cache when fresh.",
		Tags:        []string{"Topics"},
	}, gateway.ListTopics)

	huma.Register(api, huma.Operation{
		OperationID: "get-topic",
		Method:      http.MethodGet,
		Path:        "/topics/{topic}",
		Summary:     "Get one topic",
		Description: "Returns social metrics for a single topic.",
		Tags:        []string{"Topics"},
	}, gateway.GetTopic)

	huma.Register(api, huma.Operation{
		OperationID: "list-coins",
		Method:      http.MethodGet,
		Path:        "/coins",
		Summary:     "List coins",
		Description: "Returns tracked coins with market and social data.",
		Tags:        []string{"Coins"},
	}, gateway.ListCoins)

	huma.Register(api, huma.Operation{
		OperationID: "get-coin",
		Method:      http.MethodGet,
		Path:        "/coins/{symbol}",
		Summary:     "Get one coin",
		Description: "Returns market and social data for a single coin.",
		Tags:        []string{"Coins"},
	}, gateway.GetCoin)
}
