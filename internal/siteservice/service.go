// Package siteservice coordinates the content pipeline for every consumer:
// the HTTP API, the static build and the MCP server.
package siteservice

import (
	"context"
	"log/slog"
	"strings"

	"github.com/starford/folio/internal/aggregate"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
)

// Page pairs an aggregation policy with its presentation slot.
type Page struct {
	Policy aggregate.Policy
	Slot   string
}

// PageInfo describes a configured page.
type PageInfo struct {
	Name         string `json:"name"`
	Slot         string `json:"slot"`
	Category     string `json:"category"`
	Limit        int    `json:"limit,omitempty"`
	FeaturedOnly bool   `json:"featured_only,omitempty"`
}

// EntryView is one entry as delivered to clients: raw metadata plus the
// rendered body.
type EntryView struct {
	Category string            `json:"category"`
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Metadata map[string]string `json:"metadata"`
	Body     string            `json:"body"`
	HTML     string            `json:"html"`
}

// PageView is a fully aggregated and rendered page.
type PageView struct {
	render.Page
	Entries []EntryView `json:"entries"`
}

// Service wires fetcher, aggregator, renderer and search index.
type Service struct {
	fetcher  *content.Fetcher
	agg      *aggregate.Aggregator
	renderer *render.Renderer
	db       index.EntryIndex
	pages    []Page
	logger   *slog.Logger
}

// NewService creates a new site service. db may be nil when search is not
// needed (static builds).
func NewService(fetcher *content.Fetcher, agg *aggregate.Aggregator, renderer *render.Renderer, db index.EntryIndex, pages []Page, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:  fetcher,
		agg:      agg,
		renderer: renderer,
		db:       db,
		pages:    pages,
		logger:   logger,
	}
}

// Pages lists the configured pages in configuration order.
func (s *Service) Pages() []PageInfo {
	out := make([]PageInfo, len(s.pages))
	for i, p := range s.pages {
		out[i] = PageInfo{
			Name:         p.Policy.Name,
			Slot:         p.Slot,
			Category:     string(p.Policy.Category),
			Limit:        p.Policy.Limit,
			FeaturedOnly: p.Policy.FeaturedOnly,
		}
	}
	return out
}

// BuildPage runs a fresh fetch-parse-aggregate pass for the named page and
// renders it.
func (s *Service) BuildPage(ctx context.Context, name string) (*PageView, error) {
	page, ok := s.page(name)
	if !ok {
		return nil, apperr.ErrUnknownPage
	}
	res := s.agg.Collect(ctx, page.Policy)
	return &PageView{
		Page:    s.renderer.Page(page.Policy.Name, page.Slot, res.Entries),
		Entries: s.views(res.Entries),
	}, nil
}

// Category returns every entry of a category, newest first.
func (s *Service) Category(ctx context.Context, category string) ([]EntryView, error) {
	c := models.Category(category)
	if !c.Valid() {
		return nil, apperr.ErrUnknownCategory
	}
	res := s.agg.Collect(ctx, aggregate.Policy{Name: category, Category: c})
	return s.views(res.Entries), nil
}

// Entry loads a single entry.
func (s *Service) Entry(ctx context.Context, category, name string) (*EntryView, error) {
	c := models.Category(category)
	if !c.Valid() {
		return nil, apperr.ErrUnknownCategory
	}
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return nil, apperr.ErrNotFound
	}
	e := s.fetcher.LoadEntry(ctx, c, name)
	if e == nil {
		return nil, apperr.ErrNotFound
	}
	v := s.view(e)
	return &v, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return []index.SearchResult{}, nil
	}
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

// Reindex resyncs the search index with every category.
func (s *Service) Reindex(ctx context.Context) (index.Stats, error) {
	if s.db == nil {
		return index.Stats{}, nil
	}
	st, err := index.Sync(ctx, s.db, s.fetcher, models.Categories, s.logger)
	if err != nil {
		return st, err
	}
	s.logger.Info("index synced",
		slog.Int("indexed", st.Indexed),
		slog.Int("unchanged", st.Unchanged),
		slog.Int("removed", st.Removed),
		slog.Int("failed", st.Failed))
	return st, nil
}

func (s *Service) page(name string) (Page, bool) {
	for _, p := range s.pages {
		if p.Policy.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

func (s *Service) views(entries []*models.Entry) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.view(e))
	}
	return out
}

func (s *Service) view(e *models.Entry) EntryView {
	return EntryView{
		Category: string(e.Category),
		Name:     e.Name,
		Path:     e.Path(),
		Metadata: e.Metadata,
		Body:     e.Body,
		HTML:     s.renderer.Body(e),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
