// Package storage provides the sources content documents are read from and
// the writer static builds are published to.
package storage

import (
	"context"
	"fmt"
)

// Source reads raw documents addressed by a slash-separated path relative to
// the content root.
type Source interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// Writer atomically writes published files relative to an output root.
type Writer interface {
	Write(path string, content []byte) error
}

// StatusError is returned when a transport answers with a non-success status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage: %s: unexpected status %d", e.Path, e.Code)
}

// TooLargeError is returned when a document exceeds the read limit. No
// partial content is returned with it.
type TooLargeError struct {
	Path  string
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("storage: %s: body exceeds %d bytes", e.Path, e.Limit)
}
