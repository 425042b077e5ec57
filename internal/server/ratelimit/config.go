package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig is the rate limit for one endpoint pattern. A path
// ending in "/" matches by prefix, so "/cases/" covers "/cases/{id}"
// and everything beneath it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds limiter-wide settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads limiter settings from the environment.
func LoadConfig() *Config {
	enabled := envBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint budgets. Case
// creation triggers an LLM consultation downstream, so it carries the
// strictest limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/cases", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/cases/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5}, // messages, retry, share

		{Path: "/users", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/users/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},

		{Path: "/newsletter/", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},

		// Reads fall through to the default limit.
	}
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
