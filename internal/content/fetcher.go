// Package content lists category manifests and loads content documents
// through a storage source. Outside Manifest, transport failures are logged
// and degrade to an empty manifest or an absent entry.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

// DefaultManifest is the manifest file name inside each category directory.
const DefaultManifest = "index.json"

// Fetcher retrieves manifests and documents from a Source.
type Fetcher struct {
	src      storage.Source
	manifest string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithManifest overrides the manifest file name.
func WithManifest(name string) Option {
	return func(f *Fetcher) {
		if name != "" {
			f.manifest = name
		}
	}
}

// WithLogger sets the logger used for transport warnings.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(f *Fetcher) {
		if r != nil {
			f.recorder = r
		}
	}
}

// NewFetcher creates a Fetcher reading from src.
func NewFetcher(src storage.Source, opts ...Option) *Fetcher {
	f := &Fetcher{
		src:      src,
		manifest: DefaultManifest,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ManifestPath returns the manifest path of a category.
func (f *Fetcher) ManifestPath(category models.Category) string {
	return path.Join(string(category), f.manifest)
}

// ListCategory returns the filenames declared in the category manifest, in
// manifest order. Any failure is logged and yields an empty slice.
func (f *Fetcher) ListCategory(ctx context.Context, category models.Category) []string {
	names, err := f.Manifest(ctx, category)
	if err != nil {
		f.logger.Warn("content: manifest unavailable",
			slog.String("category", string(category)),
			slog.String("path", f.ManifestPath(category)),
			slog.String("error", err.Error()))
		return []string{}
	}
	return names
}

// Manifest reads and decodes the category manifest. Unlike ListCategory it
// reports failures, so callers can tell an unreachable manifest from an
// empty category.
func (f *Fetcher) Manifest(ctx context.Context, category models.Category) ([]string, error) {
	p := f.ManifestPath(category)
	data, err := f.src.Read(ctx, p)
	if err != nil {
		f.recorder.IncFetch(metrics.KindManifest, false)
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		f.recorder.IncFetch(metrics.KindManifest, false)
		return nil, fmt.Errorf("decode %s (%d bytes): %w", p, len(data), err)
	}
	f.recorder.IncFetch(metrics.KindManifest, true)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// LoadEntry fetches and parses one document. It returns nil on failure.
func (f *Fetcher) LoadEntry(ctx context.Context, category models.Category, name string) *models.Entry {
	p := path.Join(string(category), name)
	entry, err := f.load(ctx, category, name, p)
	if err != nil {
		f.recorder.IncFetch(metrics.KindDocument, false)
		f.logger.Warn("content: document load failed",
			slog.String("category", string(category)),
			slog.String("path", p),
			slog.String("error", err.Error()))
		return nil
	}
	f.recorder.IncFetch(metrics.KindDocument, true)
	return entry
}

func (f *Fetcher) load(ctx context.Context, category models.Category, name, p string) (entry *models.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry, err = nil, fmt.Errorf("parse %s: %v", p, r)
		}
	}()

	data, err := f.src.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	doc := frontmatter.Parse(string(data))
	return &models.Entry{
		Category: category,
		Name:     name,
		Metadata: doc.Metadata,
		Body:     doc.Body,
	}, nil
}

// LoadAll fetches every named document concurrently and waits for the whole
// batch. Slot i of the result belongs to names[i] and is nil when that
// document failed; a failure never cancels its siblings.
func (f *Fetcher) LoadAll(ctx context.Context, category models.Category, names []string) []*models.Entry {
	out := make([]*models.Entry, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			out[i] = f.LoadEntry(ctx, category, name)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
