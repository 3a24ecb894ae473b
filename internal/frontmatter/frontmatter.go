// Package frontmatter splits content documents into a flat metadata block and
// a markdown body.
//
// The block is a narrow line-oriented dialect, not YAML:
//
//	---
//	title: "First light"
//	date: 2024-03-01
//	featured: true
//	---
//	Body text.
//
// Every value is a string. List items and empty values never make it into
// the metadata map.
package frontmatter

import (
	"regexp"
	"strings"
)

// blockRe matches a leading --- line, a lazily matched block and the first
// closing --- line, then captures the remainder as body.
var blockRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(?:(.*?)\r?\n)??---[ \t]*(?:\r?\n(.*))?\z`)

// Document is a parsed content document.
type Document struct {
	Metadata map[string]string
	Body     string
}

// Parse splits raw into metadata and body. It never fails: a document
// without a recognizable block yields empty metadata and raw as the body.
func Parse(raw string) Document {
	block, body, ok := Split(raw)
	if !ok {
		return Document{Metadata: map[string]string{}, Body: raw}
	}
	return Document{Metadata: ParseBlock(block), Body: body}
}

// Split returns the text between the delimiter lines and the body after the
// closing delimiter. ok is false when raw does not open with a block.
func Split(raw string) (block, body string, ok bool) {
	m := blockRe.FindStringSubmatch(raw)
	if m == nil {
		return "", raw, false
	}
	return m[1], m[2], true
}

// ParseBlock turns the inside of a frontmatter block into a key/value map.
// Later keys overwrite earlier ones; rejected lines leave the map untouched.
func ParseBlock(block string) map[string]string {
	out := make(map[string]string)
	if block == "" {
		return out
	}
	for _, line := range strings.Split(block, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || rejected(value) {
			continue
		}
		out[key] = unquote(value)
	}
	return out
}

// rejected reports whether a value is a list marker or empty.
func rejected(value string) bool {
	return value == "" || strings.HasPrefix(value, "-")
}

// unquote strips one matching pair of single or double quotes.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
