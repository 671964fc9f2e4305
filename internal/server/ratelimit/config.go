package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// settings is the environment form of Config.
type settings struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int           `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"1000"`
	DefaultWindow   time.Duration `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	WriteLimit      int           `env:"RATE_LIMIT_WRITE_LIMIT" envDefault:"100"`
	ChatLimit       int           `env:"RATE_LIMIT_CHAT_LIMIT" envDefault:"30"`
	Whitelist       []string      `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string      `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() (*Config, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit environment: %w", err)
	}
	if !s.Enabled {
		return &Config{Enabled: false}, nil
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: EndpointConfigs(s.WriteLimit, s.ChatLimit),
	}, nil
}

// DefaultEndpointConfigs returns the endpoint tiers with their default limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(100, 30)
}

// EndpointConfigs returns the endpoint tiers for the given per-minute limits.
func EndpointConfigs(writeLimit, chatLimit int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: generative and speech calls
		{Path: "/chat", Method: "POST", Limit: chatLimit, Window: time.Minute, Burst: 5},
		{Path: "/voice/", Method: "POST", Limit: chatLimit, Window: time.Minute, Burst: 5},

		// Tier 2: store writes and reads
		{Path: "/save-assessment", Method: "POST", Limit: writeLimit, Window: time.Minute, Burst: 10},
		{Path: "/save-chat-session", Method: "POST", Limit: writeLimit, Window: time.Minute, Burst: 10},
		{Path: "/track-learning-progress", Method: "POST", Limit: writeLimit, Window: time.Minute, Burst: 10},
		{Path: "/get-user-data", Method: "POST", Limit: writeLimit, Window: time.Minute, Burst: 10},

		// Tier 3: catalog reads - handled by default limit
		// Tier 4: health and metrics (unlimited) - handled by special case in matcher
	}
}

func ipSet(ips []string) map[string]bool {
	out := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
