package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts a markdown body into HTML.
type Markdown interface {
	Render(body string) (string, error)
}

// Sanitizer strips unsafe markup from HTML.
type Sanitizer interface {
	Sanitize(html string) string
}

// Goldmark renders GitHub flavored markdown. Raw HTML in bodies is kept and
// left to the Sanitizer.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a Goldmark renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Render implements Markdown.
func (g *Goldmark) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Bluemonday sanitizes with the user generated content policy.
type Bluemonday struct {
	policy *bluemonday.Policy
}

// NewBluemonday creates a Bluemonday sanitizer.
func NewBluemonday() *Bluemonday {
	return &Bluemonday{policy: bluemonday.UGCPolicy()}
}

// Sanitize implements Sanitizer.
func (b *Bluemonday) Sanitize(html string) string {
	return b.policy.Sanitize(html)
}
