// Package render is the presentation boundary: it turns aggregated entries
// into HTML fragments for a named output slot.
//
// Markdown rendering and sanitizing are optional. Without a Markdown
// renderer the body is emitted as escaped plain text; without a Sanitizer
// the rendered HTML passes through unchanged.
package render

import (
	"bytes"
	"html"
	"html/template"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/folio/internal/models"
)

// Defaults applied when Options leave a field empty.
const (
	DefaultDateFormat  = "January 2, 2006"
	DefaultPlaceholder = "Nothing here yet."
	DefaultUntitled    = "Untitled"
)

// Options configures a Renderer.
type Options struct {
	DateFormat  string
	Placeholder string
	Untitled    string
	Markdown    Markdown
	Sanitizer   Sanitizer
	Logger      *slog.Logger
}

// Page is the final output handed to a page slot.
type Page struct {
	Name  string `json:"name"`
	Slot  string `json:"slot"`
	Title string `json:"title"`
	HTML  string `json:"html"`
	Empty bool   `json:"empty"`
}

// Renderer renders entries and pages.
type Renderer struct {
	dateFormat  string
	placeholder string
	untitled    string
	md          Markdown
	sanitizer   Sanitizer
	logger      *slog.Logger
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		dateFormat:  opts.DateFormat,
		placeholder: opts.Placeholder,
		untitled:    opts.Untitled,
		md:          opts.Markdown,
		sanitizer:   opts.Sanitizer,
		logger:      opts.Logger,
	}
	if r.dateFormat == "" {
		r.dateFormat = DefaultDateFormat
	}
	if r.placeholder == "" {
		r.placeholder = DefaultPlaceholder
	}
	if r.untitled == "" {
		r.untitled = DefaultUntitled
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

var entryTmpl = template.Must(template.New("entry").Parse(`<article class="entry entry--{{.Category}}" data-name="{{.Name}}">
<h2 class="entry__title">{{.Title}}</h2>
{{- if .Date}}
<time class="entry__date"{{if .ISODate}} datetime="{{.ISODate}}"{{end}}>{{.Date}}</time>
{{- end}}
{{- if .Image}}
<figure class="entry__figure"><img src="{{.Image}}" alt="{{.Title}}">{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>
{{- end}}
{{- if .Artist}}
<p class="entry__artist">{{.Artist}}</p>
{{- end}}
{{- if .Link}}
<a class="entry__link" href="{{.Link}}">{{.Link}}</a>
{{- end}}
<div class="entry__body">{{.Body}}</div>
</article>`))

var placeholderTmpl = template.Must(template.New("placeholder").Parse(`<p class="empty">{{.}}</p>`))

type entryView struct {
	Category string
	Name     string
	Title    string
	Date     string
	ISODate  string
	Image    string
	Caption  string
	Artist   string
	Link     string
	Body     template.HTML
}

// Body renders an entry body to HTML.
func (r *Renderer) Body(e *models.Entry) string {
	out := html.EscapeString(e.Body)
	if r.md != nil {
		rendered, err := r.md.Render(e.Body)
		if err != nil {
			r.logger.Warn("render: markdown failed, using plain text",
				slog.String("path", e.Path()),
				slog.String("error", err.Error()))
		} else {
			out = rendered
		}
	}
	if r.sanitizer != nil {
		out = r.sanitizer.Sanitize(out)
	}
	return out
}

// DisplayDate formats the entry date with the configured layout. An
// unparseable date is shown as written; a missing one is empty.
func (r *Renderer) DisplayDate(e *models.Entry) (display, iso string) {
	raw, ok := e.Get("date")
	if !ok {
		return "", ""
	}
	t, valid := e.Date()
	if !valid {
		return raw, ""
	}
	return t.Format(r.dateFormat), t.Format("2006-01-02")
}

// Entry renders one entry fragment.
func (r *Renderer) Entry(e *models.Entry) (string, error) {
	date, iso := r.DisplayDate(e)
	view := entryView{
		Category: string(e.Category),
		Name:     e.Name,
		Title:    e.Field("title", r.untitled),
		Date:     date,
		ISODate:  iso,
		Image:    e.Field("image", ""),
		Caption:  e.Field("caption", ""),
		Artist:   e.Field("artist", ""),
		Link:     e.Field("link", ""),
		Body:     template.HTML(r.Body(e)),
	}
	var buf bytes.Buffer
	if err := entryTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Placeholder renders the "no content" fragment.
func (r *Renderer) Placeholder() string {
	var buf bytes.Buffer
	_ = placeholderTmpl.Execute(&buf, r.placeholder)
	return buf.String()
}

// Page renders entries for a page slot: either every entry fragment joined,
// or the placeholder alone. Entries that fail to render are skipped.
func (r *Renderer) Page(name, slot string, entries []*models.Entry) Page {
	// A Caser carries state between calls, so each page gets its own.
	p := Page{Name: name, Slot: slot, Title: cases.Title(language.English).String(name)}
	if p.Slot == "" {
		p.Slot = name
	}

	fragments := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		frag, err := r.Entry(e)
		if err != nil {
			r.logger.Warn("render: entry failed",
				slog.String("path", e.Path()),
				slog.String("error", err.Error()))
			continue
		}
		fragments = append(fragments, frag)
	}

	if len(fragments) == 0 {
		p.Empty = true
		p.HTML = r.Placeholder()
		return p
	}
	p.HTML = strings.Join(fragments, "\n")
	return p
}
