package ratelimit

import (
	"net/http"
	"strings"
	"time"
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
	Enabled bool
	// DefaultLimit applies to endpoints without a specific configuration. Zero means unlimited.
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig limits contact submissions to contactLimit per contactWindow per client
// and page views to a lenient default.
func DefaultConfig(contactLimit int, contactWindow time.Duration) *Config {
	if contactWindow <= 0 {
		contactWindow = time.Minute
	}
	return &Config{
		Enabled:         contactLimit > 0,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/contact", Method: http.MethodPost, Limit: contactLimit, Window: contactWindow, Burst: contactLimit},
			// PDF export starts a browser per request.
			{Path: "/cv", Method: http.MethodGet, Limit: 10, Window: time.Minute, Burst: 3},
		},
	}
}

// WithWhitelist returns c with the given client IPs exempted.
func (c *Config) WithWhitelist(ips []string) *Config {
	if c.Whitelist == nil {
		c.Whitelist = make(map[string]bool)
	}
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			c.Whitelist[ip] = true
		}
	}
	return c
}
