package container

// Options holds the CLI and environment configuration for both binaries.
type Options struct {
	Port              int    `default:"8888"                                help:"Port to listen on"                              short:"p"`
	RedisAddr         string `default:"localhost:6379"                      help:"Redis server address"                           short:"r"`
	PostgresURL       string `default:""                                    help:"Postgres URL for usage metering (optional)"`
	JWTSecret         string `default:""                                    help:"HMAC secret for verifying bearer tokens"`
	LunarCrushAPIKey  string `default:""                                    help:"LunarCrush API key"`
	LunarCrushBaseURL string `default:"https://lunarcrush.com/api4/public"  help:"LunarCrush API base URL"`
	CacheTTLSeconds   int    `default:"120"                                 help:"Default cache TTL in seconds"`
	LogFormat         string `default:"console"                             help:"Log format: console or json"`
}
