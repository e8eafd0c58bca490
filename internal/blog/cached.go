package blog

import (
	"context"
	"time"

	"github.com/jonathan/portfolio/internal/cache"
	"github.com/jonathan/portfolio/internal/types"
)

// CachedSource stores successful responses of another Source. Failures, including
// ErrNotFound, are never cached.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedSource wraps source with c. A nil cache or non-positive ttl disables caching.
func NewCachedSource(source Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: c, ttl: ttl}
}

// Posts implements Source.
func (s *CachedSource) Posts(ctx context.Context, lang types.Language) ([]types.BlogPost, error) {
	return cache.Remember(ctx, s.cache, "blog:posts:"+lang.String(), s.ttl,
		func(ctx context.Context) ([]types.BlogPost, error) {
			return s.source.Posts(ctx, lang)
		})
}

// Post implements Source.
func (s *CachedSource) Post(ctx context.Context, lang types.Language, slug string) (*types.BlogPost, error) {
	return cache.Remember(ctx, s.cache, "blog:post:"+lang.String()+":"+slug, s.ttl,
		func(ctx context.Context) (*types.BlogPost, error) {
			return s.source.Post(ctx, lang, slug)
		})
}
