package api

import (
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/siteservice"
)

// PageInfo describes one configured page (aliased from the domain layer).
type PageInfo = siteservice.PageInfo

// PageView is a rendered page with its entries (aliased from the domain layer).
type PageView = siteservice.PageView

// EntryView is a single entry (aliased from the domain layer).
type EntryView = siteservice.EntryView

// PageListResponse wraps the configured pages.
type PageListResponse struct {
	Pages []PageInfo `json:"pages"`
}

// CategoryResponse wraps every entry of a category.
type CategoryResponse struct {
	Category string      `json:"category"`
	Entries  []EntryView `json:"entries"`
	Total    int         `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// ReindexResponse reports the outcome of a manual resync.
type ReindexResponse struct {
	Indexed   int `json:"indexed"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
}
