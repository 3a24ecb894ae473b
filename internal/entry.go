// Package internal provides the main application initialization and runtime logic.
package internal

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
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/publish"
	"github.com/starford/folio/internal/refresh"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_source", cfg.Content.Source),
		slog.String("content_root", cfg.Content.Root),
		slog.String("content_base_url", cfg.Content.BaseURL),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("pages", len(cfg.Pages)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, err := newComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer c.Close()

	// Initial index sync. The pipeline never reads the index, so a failure
	// only degrades search.
	if _, err := c.svc.Reindex(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	r := newRouter(cfg, c, broker)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if c.fs != nil {
		// Watch the content root and push live-reload events.
		g.Go(func() error {
			err := index.Watch(gCtx, c.db, c.fetcher, c.fs.Root(), logger, func(category models.Category, st index.Stats) {
				broker.PublishContentEvent(string(category), st.Indexed, st.Removed)
			})
			if err != nil {
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	} else if cfg.Index.Refresh > 0 {
		// Remote sources cannot be watched; poll them instead.
		sched, err := refresh.NewScheduler(gCtx, cfg.Index.Refresh, func(ctx context.Context) error {
			for _, category := range models.Categories {
				st, err := index.SyncCategory(ctx, c.db, c.fetcher, category, logger)
				if err != nil {
					return err
				}
				if st.Changed() {
					broker.PublishContentEvent(string(category), st.Indexed, st.Removed)
				}
			}
			return nil
		}, logger)
		if err != nil {
			return err
		}
		sched.Start()
		g.Go(func() error {
			<-gCtx.Done()
			return sched.Stop()
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so long-running goroutines exit after a
// signal.
var errShutdown = errors.New("shutdown")

func newRouter(cfg *Config, c *components, broker *sse.Broker) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if c.db == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		if _, err := c.db.Count(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(c.svc, api.RouterOptions{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
	}))

	if c.fs != nil {
		r.Get("/media/*", api.NewMediaHandler(c.fs).ServeFile)
	}
	if c.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(c.registry))
	}
	return r
}

// Build renders every configured page into the build output directory.
func Build(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	c, err := newComponents(cfg, logger, false)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := os.MkdirAll(cfg.Build.Output, 0o755); err != nil {
		return fmt.Errorf("create build output: %w", err)
	}
	out, err := storage.NewFS(cfg.Build.Output)
	if err != nil {
		return fmt.Errorf("init build output: %w", err)
	}

	start := time.Now()
	sum, err := publish.Build(ctx, c.svc, out, logger)
	if err != nil {
		return err
	}
	logger.Info("Build finished",
		slog.String("output", out.Root()),
		slog.Int("pages", len(sum.Pages)),
		slog.Any("empty", sum.Empty),
		slog.Duration("took", time.Since(start)))
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout. Logs go to stderr so they
// never corrupt the protocol stream.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{withLogWriter(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	c, err := newComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.svc.Reindex(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(c.svc, app.version).ServeStdio()
}
