package ratelimit

import (
	"strings"
)

// unlimitedPrefixes are never rate limited.
var unlimitedPrefixes = []string{"/health", "/metrics", "/static/"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/blog/" matches "/blog/{slug}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	for _, prefix := range unlimitedPrefixes {
		if path == prefix || (strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, prefix)) {
			return &EndpointConfig{Path: prefix}
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
