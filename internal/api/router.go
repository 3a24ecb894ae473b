package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/siteservice"
)

// RouterOptions configures optional routes.
type RouterOptions struct {
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted. Reads are
// public; POST /reindex goes through the Bearer token check.
func NewRouter(svc *siteservice.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/pages", h.ListPages)
	r.Get("/pages/{name}", h.GetPage)
	r.Get("/pages/{name}/html", h.GetPageHTML)
	r.Get("/categories/{category}", h.GetCategory)
	r.Get("/entries/{category}/{name}", h.GetEntry)
	r.Get("/search", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.AuthEnabled, opts.Token))
		r.Post("/reindex", h.Reindex)
	})

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}
