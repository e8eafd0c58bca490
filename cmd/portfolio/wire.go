package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/portfolio/internal/blog"
	"github.com/jonathan/portfolio/internal/cache"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/export"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/projects"
)

func fetchOptions(cfg *config.Config) *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.API.Timeout
	return opts
}

// buildCache returns nil when caching is disabled. The returned func releases it.
func buildCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case config.CacheMemory:
		return cache.NewMemory(), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

func retryPolicy(cfg *config.Config) profile.RetryPolicy {
	return profile.RetryPolicy{
		Interval:    cfg.Profile.RetryInterval,
		Multiplier:  cfg.Profile.RetryMultiplier,
		MaxInterval: cfg.Profile.RetryMaxInterval,
	}
}

// profileSource shares in-flight fetches for the same language across sessions.
func profileSource(cfg *config.Config) profile.Source {
	return profile.Coalesce(profile.NewHTTPSource(cfg.API.BaseURL, fetchOptions(cfg)), cfg.API.Timeout*2)
}

func blogSource(cfg *config.Config, c cache.Cache) blog.Source {
	var src blog.Source
	switch cfg.Blog.Provider {
	case config.BlogProviderHashnode:
		src = blog.NewHashnodeSource(cfg.Blog.HashnodeEndpoint, cfg.Blog.HashnodeHost, cfg.Blog.PageSize, fetchOptions(cfg))
	default:
		src = blog.NewBackendSource(cfg.API.BaseURL, fetchOptions(cfg))
	}
	if c == nil {
		return src
	}
	return blog.NewCachedSource(src, c, cfg.Cache.TTL)
}

// projectsSource returns nil when no GitHub user or repository list is configured.
func projectsSource(ctx context.Context, cfg *config.Config, c cache.Cache) (projects.Source, error) {
	if cfg.GitHub.User == "" && len(cfg.GitHub.Repos) == 0 {
		return nil, nil
	}
	client, err := projects.NewClient(ctx, projects.Options{
		User:              cfg.GitHub.User,
		Token:             cfg.GitHub.Token,
		Repos:             cfg.GitHub.Repos,
		BaseURL:           cfg.GitHub.BaseURL,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}
	if c == nil {
		return client, nil
	}
	return projects.NewCachedSource(client, c, "projects:"+cfg.GitHub.User, cfg.Cache.TTL), nil
}

func contactSender(cfg *config.Config) contact.Sender {
	return contact.NewClient(cfg.ContactEndpoint(), fetchOptions(cfg))
}

func exporter(cfg *config.Config, logger *slog.Logger) *export.Exporter {
	if cfg.Export.DisableBrowser {
		return export.New(nil, logger)
	}
	return export.New(&export.ChromePrinter{Timeout: cfg.Export.Timeout}, logger)
}
