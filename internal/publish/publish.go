// Package publish writes every configured page to static files.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/siteservice"
	"github.com/starford/folio/internal/storage"
)

// PagesFile lists the pages written by a build.
const PagesFile = "pages.json"

// Summary reports what a build produced.
type Summary struct {
	Pages []string `json:"pages"`
	Empty []string `json:"empty"`
}

// Build aggregates and renders each page through svc and writes
// <page>.html (the slot fragment) and <page>.json (the full view) to out.
// Empty pages are written with their placeholder.
func Build(ctx context.Context, svc *siteservice.Service, out storage.Writer, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sum := Summary{Pages: []string{}, Empty: []string{}}

	for _, info := range svc.Pages() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		view, err := svc.BuildPage(ctx, info.Name)
		if err != nil {
			return sum, fmt.Errorf("publish: build %s: %w", info.Name, err)
		}

		if err := out.Write(info.Name+".html", []byte(view.HTML)); err != nil {
			return sum, fmt.Errorf("publish: write %s.html: %w", info.Name, err)
		}
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return sum, fmt.Errorf("publish: encode %s: %w", info.Name, err)
		}
		if err := out.Write(info.Name+".json", data); err != nil {
			return sum, fmt.Errorf("publish: write %s.json: %w", info.Name, err)
		}

		sum.Pages = append(sum.Pages, info.Name)
		if view.Empty {
			sum.Empty = append(sum.Empty, info.Name)
		}
		logger.Info("page published",
			slog.String("page", info.Name),
			slog.String("slot", view.Slot),
			slog.Int("entries", len(view.Entries)))
	}

	data, err := json.MarshalIndent(svc.Pages(), "", "  ")
	if err != nil {
		return sum, fmt.Errorf("publish: encode pages: %w", err)
	}
	if err := out.Write(PagesFile, data); err != nil {
		return sum, fmt.Errorf("publish: write %s: %w", PagesFile, err)
	}
	return sum, nil
}
