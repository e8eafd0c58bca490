package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/server"
	"github.com/jonathan/portfolio/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	Long:  `Start an HTTP server that renders the profile, projects, blog and contact pages.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, cleanup, err := newServer(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()
	return srv.Start()
}

// newServer wires every collaborator from appConfig.
func newServer(ctx context.Context) (*server.Server, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := appConfig
	logger := slog.Default()

	c, closeCache, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cache: %w", err)
	}

	projectsSrc, err := projectsSource(ctx, cfg, c)
	if err != nil {
		closeCache()
		return nil, nil, err
	}

	source := profileSource(cfg)
	sessions := session.NewStore(session.StoreOptions{
		TTL: cfg.Server.SessionTTL,
		NewController: func() *profile.Controller {
			return profile.NewController(source, profile.Options{
				Retry:        retryPolicy(cfg),
				FetchTimeout: cfg.API.Timeout,
				Logger:       logger,
			})
		},
		Logger: logger,
	})

	srv, err := server.New(cfg.Server, server.Deps{
		Sessions: sessions,
		Projects: projectsSrc,
		Blog:     blogSource(cfg, c),
		Contact:  contactSender(cfg),
		Exporter: exporter(cfg, logger),
		Logger:   logger,
	})
	if err != nil {
		closeCache()
		return nil, nil, fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configured",
		"api", cfg.API.BaseURL,
		"blog", cfg.Blog.Provider,
		"cache", cfg.Cache.Backend,
		"projects", projectsSrc != nil,
		"retry_interval", cfg.Profile.RetryInterval,
	)
	return srv, closeCache, nil
}
