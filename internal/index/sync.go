package index

import (
	"context"
	"log/slog"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
)

// Stats summarises one sync pass.
type Stats struct {
	Indexed   int
	Unchanged int
	Removed   int
	Failed    int
}

// Changed reports whether the pass modified the index.
func (s Stats) Changed() bool {
	return s.Indexed > 0 || s.Removed > 0
}

func (s *Stats) add(o Stats) {
	s.Indexed += o.Indexed
	s.Unchanged += o.Unchanged
	s.Removed += o.Removed
	s.Failed += o.Failed
}

// Sync brings the index up to date with every category:
//   - new/changed entries are upserted
//   - entries dropped from a manifest are deleted
//
// Entries that fail to load keep their previous row, and a category whose
// manifest cannot be read is left untouched.
func Sync(ctx context.Context, db EntryIndex, f *content.Fetcher, categories []models.Category, logger *slog.Logger) (Stats, error) {
	var total Stats
	for _, c := range categories {
		st, err := SyncCategory(ctx, db, f, c, logger)
		if err != nil {
			return total, err
		}
		total.add(st)
	}
	return total, nil
}

// SyncCategory syncs a single category.
func SyncCategory(ctx context.Context, db EntryIndex, f *content.Fetcher, category models.Category, logger *slog.Logger) (Stats, error) {
	var st Stats

	existing, err := db.Checksums(string(category))
	if err != nil {
		return st, err
	}

	names, err := f.Manifest(ctx, category)
	if err != nil {
		logger.Warn("sync: manifest unavailable, keeping indexed entries",
			slog.String("category", string(category)),
			slog.Int("kept", len(existing)),
			slog.String("error", err.Error()))
		return st, nil
	}
	entries := f.LoadAll(ctx, category, names)

	listed := make(map[string]struct{}, len(names))
	for i, name := range names {
		e := entries[i]
		p := string(category) + "/" + name
		listed[p] = struct{}{}
		if e == nil {
			st.Failed++
			continue
		}

		cs := checksum.Entry(e.Metadata, e.Body)
		if existing[p] == cs {
			st.Unchanged++
			continue
		}
		row := EntryRow{
			Path:     p,
			Category: string(category),
			Name:     name,
			Title:    e.Field("title", ""),
			Date:     e.Field("date", ""),
			Checksum: cs,
		}
		if err := db.UpsertEntry(row, e.Body); err != nil {
			logger.Warn("sync: index failed", slog.String("path", p), slog.String("error", err.Error()))
			st.Failed++
			continue
		}
		logger.Debug("sync: indexed", slog.String("path", p))
		st.Indexed++
	}

	for p := range existing {
		if _, ok := listed[p]; ok {
			continue
		}
		if err := db.DeleteEntry(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("path", p))
		st.Removed++
	}

	return st, nil
}
