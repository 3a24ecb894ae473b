package api

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/storage"
)

// MediaHandler serves static files (images, audio) from the content root.
// Manifests and markdown sources are not exposed.
type MediaHandler struct {
	store *storage.FS
}

// NewMediaHandler creates a handler rooted at the content store.
func NewMediaHandler(store *storage.FS) *MediaHandler {
	return &MediaHandler{store: store}
}

// ServeFile handles GET /media/*.
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if rel == "" || hiddenMedia(rel) {
		http.NotFound(w, r)
		return
	}
	abs, err := h.store.SafePath(rel)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

func hiddenMedia(rel string) bool {
	base := path.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch strings.ToLower(path.Ext(base)) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}
