// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Transport selects which HTTP request shapes are mounted.
type Transport string

const (
	// TransportRPC serves the simple {method, params} envelope.
	TransportRPC Transport = "rpc"
	// TransportMCP serves the MCP streamable HTTP transport.
	TransportMCP Transport = "mcp"
	// TransportAll serves both.
	TransportAll Transport = "all"
)

// UnmarshalText implements encoding.TextUnmarshaler so env can parse it.
func (t *Transport) UnmarshalText(text []byte) error {
	switch v := Transport(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case TransportRPC, TransportMCP, TransportAll:
		*t = v
		return nil
	default:
		return fmt.Errorf("unknown transport %q: want rpc, mcp or all", text)
	}
}

// ServesRPC reports whether the envelope shape is mounted.
func (t Transport) ServesRPC() bool { return t == TransportRPC || t == TransportAll }

// ServesMCP reports whether the MCP streamable shape is mounted.
func (t Transport) ServesMCP() bool { return t == TransportMCP || t == TransportAll }

// Config holds every setting of the server.
type Config struct {
	// APIKey is the Google Maps API key. Empty is allowed at startup; every
	// tool request then fails with a configuration error.
	APIKey string `env:"GOOGLE_MAPS_API_KEY"`

	Addr      string    `env:"MAPS_MCP_ADDR" envDefault:":8080"`
	Transport Transport `env:"MAPS_MCP_TRANSPORT" envDefault:"all"`

	// BaseURL overrides the Google Maps web service endpoint.
	BaseURL string `env:"MAPS_MCP_BASE_URL"`

	UpstreamTimeout time.Duration `env:"MAPS_MCP_UPSTREAM_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"MAPS_MCP_REQUEST_TIMEOUT" envDefault:"60s"`

	// RateLimit is in upstream requests per second; 0 disables limiting.
	RateLimit float64 `env:"MAPS_MCP_RATE_LIMIT" envDefault:"10"`
	RateBurst int     `env:"MAPS_MCP_RATE_BURST" envDefault:"10"`

	// CacheTTL of 0 disables the response cache.
	CacheTTL  time.Duration `env:"MAPS_MCP_CACHE_TTL" envDefault:"0s"`
	CacheSize int           `env:"MAPS_MCP_CACHE_SIZE" envDefault:"1000"`

	// OTelEndpoint is the OTLP/HTTP trace endpoint; empty disables tracing.
	OTelEndpoint string `env:"MAPS_MCP_OTEL_ENDPOINT"`
}

// HasAPIKey reports whether an upstream key is configured.
func (c Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("MAPS_MCP_ADDR must not be empty")
	case c.UpstreamTimeout <= 0:
		return fmt.Errorf("MAPS_MCP_UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("MAPS_MCP_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	case c.RateLimit < 0:
		return fmt.Errorf("MAPS_MCP_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	case c.RateLimit > 0 && c.RateBurst < 1:
		return fmt.Errorf("MAPS_MCP_RATE_BURST must be at least 1, got %d", c.RateBurst)
	case c.CacheTTL < 0:
		return fmt.Errorf("MAPS_MCP_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
