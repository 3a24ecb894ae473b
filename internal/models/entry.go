// Package models defines the domain types for folio.
package models

import (
	"strings"
	"time"
)

// Category is one of the fixed content groupings of the site.
type Category string

// Known categories.
const (
	CategoryDiary   Category = "diary"
	CategoryPhotos  Category = "photos"
	CategoryMusic   Category = "music"
	CategoryArchive Category = "archive"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryDiary, CategoryPhotos, CategoryMusic, CategoryArchive}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// dateLayouts are tried in order when reading the date field.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Entry is one parsed content document. Metadata holds the raw parsed
// values; defaults are applied by readers, never stored.
type Entry struct {
	Category Category          `json:"category"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
	Body     string            `json:"body"`
}

// Path returns the document path relative to the content root.
func (e *Entry) Path() string {
	return string(e.Category) + "/" + e.Name
}

// Get returns the metadata value for key and whether it was provided.
func (e *Entry) Get(key string) (string, bool) {
	v, ok := e.Metadata[key]
	return v, ok
}

// Field returns the metadata value for key, or fallback when absent.
func (e *Entry) Field(key, fallback string) string {
	if v, ok := e.Metadata[key]; ok {
		return v
	}
	return fallback
}

// Date parses the date field. ok is false when it is missing or unparseable.
func (e *Entry) Date() (time.Time, bool) {
	return ParseDate(e.Metadata["date"])
}

// Featured reports whether the featured field is exactly "true".
func (e *Entry) Featured() bool {
	return e.Metadata["featured"] == "true"
}

// ParseDate parses s with the accepted date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
