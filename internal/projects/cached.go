package projects

import (
	"context"
	"time"

	"github.com/jonathan/portfolio/internal/cache"
	"github.com/jonathan/portfolio/internal/types"
)

// CachedSource stores the successful project list of another Source.
type CachedSource struct {
	source Source
	cache  cache.Cache
	key    string
	ttl    time.Duration
}

// NewCachedSource wraps source with c under key. A nil cache or non-positive ttl
// disables caching.
func NewCachedSource(source Source, c cache.Cache, key string, ttl time.Duration) *CachedSource {
	if key == "" {
		key = "projects"
	}
	return &CachedSource{source: source, cache: c, key: key, ttl: ttl}
}

// Projects implements Source.
func (s *CachedSource) Projects(ctx context.Context) ([]types.GithubProject, error) {
	return cache.Remember(ctx, s.cache, s.key, s.ttl, s.source.Projects)
}
