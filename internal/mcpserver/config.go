package mcpserver

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded from CONFORMANCE_* environment variables via loadConfig().
type serverConfig struct {
	// Contract cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Input limits.
	MaxInlineSize int64
	MaxBodySize   int64

	// URL fetching.
	FetchTimeout    time.Duration
	AllowPrivateIPs bool

	// list_resources defaults.
	ResourceLimit int
	MaxLimit      int
}

// cfg is the active server configuration. Run reloads it with the server's
// logger so invalid values are reported.
var cfg = loadConfig(zap.NewNop().Sugar())

// loadConfig reads configuration from CONFORMANCE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig(logger *zap.SugaredLogger) *serverConfig {
	env := envReader{logger: logger}
	return &serverConfig{
		CacheEnabled:    env.boolean("CONFORMANCE_CACHE_ENABLED", true),
		CacheMaxSize:    env.integer("CONFORMANCE_CACHE_MAX_SIZE", 10),
		CacheTTL:        env.duration("CONFORMANCE_CACHE_TTL", 15*time.Minute),
		MaxInlineSize:   int64(env.integer("CONFORMANCE_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxBodySize:     int64(env.integer("CONFORMANCE_MAX_BODY_SIZE", 5*1024*1024)),
		FetchTimeout:    env.duration("CONFORMANCE_FETCH_TIMEOUT", 30*time.Second),
		AllowPrivateIPs: env.boolean("CONFORMANCE_ALLOW_PRIVATE_IPS", false),
		ResourceLimit:   env.integer("CONFORMANCE_RESOURCE_LIMIT", 100),
		MaxLimit:        env.integer("CONFORMANCE_MAX_LIMIT", 1000),
	}
}

type envReader struct {
	logger *zap.SugaredLogger
}

func (e envReader) boolean(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.logger.Warnw("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func (e envReader) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		e.logger.Warnw("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		e.logger.Warnw("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
