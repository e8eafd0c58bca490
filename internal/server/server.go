// Package server serves the portfolio pages: the localized profile, projects, blog and
// contact views, plus the CV download and operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/portfolio/internal/blog"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/export"
	"github.com/jonathan/portfolio/internal/projects"
	"github.com/jonathan/portfolio/internal/rendering"
	"github.com/jonathan/portfolio/internal/server/ratelimit"
	"github.com/jonathan/portfolio/internal/session"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// Deps are the collaborators the server renders from.
type Deps struct {
	Sessions *session.Store
	// Projects and Blog may be nil; their pages then render the localized error.
	Projects projects.Source
	Blog     blog.Source
	Contact  contact.Sender
	Exporter *export.Exporter
	Renderer *rendering.Renderer
	Logger   *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	cfg         config.ServerConfig
	httpServer  *http.Server
	sessions    *session.Store
	projects    projects.Source
	blog        blog.Source
	contact     contact.Sender
	exporter    *export.Exporter
	renderer    *rendering.Renderer
	rateLimiter *ratelimit.Limiter
	log         *slog.Logger
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		return nil, errors.New("server: session store is required")
	}
	if deps.Contact == nil {
		return nil, errors.New("server: contact sender is required")
	}

	s := &Server{
		cfg:      cfg,
		sessions: deps.Sessions,
		projects: deps.Projects,
		blog:     deps.Blog,
		contact:  deps.Contact,
		exporter: deps.Exporter,
		renderer: deps.Renderer,
		log:      deps.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.exporter == nil {
		s.exporter = export.New(nil, s.log)
	}
	if s.renderer == nil {
		r, err := rendering.New()
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		s.renderer = r
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig(cfg.ContactLimit, cfg.ContactWindow))

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Routes builds the router with every route and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.withLogging)
	r.Use(s.withMetrics)
	r.Use(middleware.Recoverer)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(rendering.Static()))))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleProfile)
		r.Get("/lang/{code}", s.handleLanguage)
		r.Get("/projects", s.handleProjects)
		r.Get("/blog", s.handleBlog)
		r.Get("/blog/{slug}", s.handlePost)
		r.Get("/contact", s.handleContactForm)
		r.Post("/contact", s.handleContactSubmit)
		r.Get("/cv", s.handleCV)
		r.Get("/api/profile", s.handleAPIProfile)
		r.NotFound(s.handleNotFound)
	})

	return r
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go s.sessions.Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.shutdownBackground()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.shutdownBackground()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.shutdownBackground()
	s.log.Info("server stopped")
	return nil
}

// shutdownBackground stops the rate limiter cleanup and tears down every session.
func (s *Server) shutdownBackground() {
	s.rateLimiter.Stop()
	s.sessions.Close()
}
