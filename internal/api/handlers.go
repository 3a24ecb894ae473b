package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/siteservice"
)

const maxSearchLimit = 100

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// urlParam returns a decoded chi URL parameter. Encoded names such as
// "my%20day.md" are accepted.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PageListResponse{Pages: h.svc.Pages()})
}

// GetPage handles GET /api/pages/{name}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	view, ok := h.buildPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetPageHTML handles GET /api/pages/{name}/html and returns the slot
// fragment as-is.
func (h *Handler) GetPageHTML(w http.ResponseWriter, r *http.Request) {
	view, ok := h.buildPage(w, r)
	if !ok {
		return
	}
	writeHTML(w, http.StatusOK, view.HTML)
}

func (h *Handler) buildPage(w http.ResponseWriter, r *http.Request) (*PageView, bool) {
	name := urlParam(r, "name")
	view, err := h.svc.BuildPage(r.Context(), name)
	if err != nil {
		h.writeError(w, err, slog.String("page", name))
		return nil, false
	}
	return view, true
}

// GetCategory handles GET /api/categories/{category}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category := urlParam(r, "category")
	entries, err := h.svc.Category(r.Context(), category)
	if err != nil {
		h.writeError(w, err, slog.String("category", category))
		return
	}
	writeJSON(w, http.StatusOK, CategoryResponse{
		Category: category,
		Entries:  entries,
		Total:    len(entries),
	})
}

// GetEntry handles GET /api/entries/{category}/{name}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	category := urlParam(r, "category")
	name := urlParam(r, "name")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid entry name"))
		return
	}
	e, err := h.svc.Entry(r.Context(), category, name)
	if err != nil {
		h.writeError(w, err, slog.String("category", category), slog.String("name", name))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Search handles GET /api/search?q=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		h.writeError(w, err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Reindex handles POST /api/reindex.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Reindex(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{
		Indexed:   st.Indexed,
		Unchanged: st.Unchanged,
		Removed:   st.Removed,
		Failed:    st.Failed,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrUnknownPage):
		writeJSON(w, http.StatusNotFound, errorBody("unknown page"))
	case errors.Is(err, apperr.ErrUnknownCategory):
		writeJSON(w, http.StatusNotFound, errorBody("unknown category"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error("api request failed", append(attrs, slog.String("error", err.Error()))...)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
