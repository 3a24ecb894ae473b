package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/starford/folio/internal/aggregate"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/siteservice"
	"github.com/starford/folio/internal/storage"
)

var errConfigRequired = errors.New("config is required")

func newLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// components is the content pipeline shared by serve, build and mcp.
type components struct {
	fs       *storage.FS // nil for http sources
	fetcher  *content.Fetcher
	renderer *render.Renderer
	registry *prometheus.Registry // nil when metrics are disabled
	db       *index.DB             // nil unless opened
	svc      *siteservice.Service
}

// newComponents builds the pipeline. withIndex opens the search index.
func newComponents(cfg *Config, logger *slog.Logger, withIndex bool) (*components, error) {
	c := &components{}

	src, err := c.newSource(cfg.Content)
	if err != nil {
		return nil, err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(c.registry)
	}

	c.fetcher = content.NewFetcher(src,
		content.WithManifest(cfg.Content.Manifest),
		content.WithLogger(logger),
		content.WithRecorder(rec),
	)
	c.renderer = newRenderer(cfg.Site, logger)

	var entryIndex index.EntryIndex
	if withIndex {
		c.db, err = index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		entryIndex = c.db
	}

	pages := make([]siteservice.Page, len(cfg.Pages))
	for i, p := range cfg.Pages {
		pages[i] = siteservice.Page{Policy: p.Policy(), Slot: p.Slot}
	}
	c.svc = siteservice.NewService(c.fetcher, aggregate.New(c.fetcher, rec), c.renderer, entryIndex, pages, logger)
	return c, nil
}

func (c *components) newSource(cfg ContentConfig) (storage.Source, error) {
	switch cfg.Source {
	case SourceHTTP:
		src, err := storage.NewHTTP(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("init http source: %w", err)
		}
		return src, nil
	default:
		fs, err := storage.NewFS(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("init content root: %w", err)
		}
		c.fs = fs
		return fs, nil
	}
}

func (c *components) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func newRenderer(cfg SiteConfig, logger *slog.Logger) *render.Renderer {
	opts := render.Options{
		DateFormat:  cfg.DateFormat,
		Placeholder: cfg.Placeholder,
		Untitled:    cfg.Untitled,
		Logger:      logger,
	}
	if cfg.Markdown {
		opts.Markdown = render.NewGoldmark()
	}
	if cfg.Sanitize {
		opts.Sanitizer = render.NewBluemonday()
	}
	return render.New(opts)
}
