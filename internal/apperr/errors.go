// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownPage     = errors.New("unknown page")
	ErrUnknownCategory = errors.New("unknown category")
)
