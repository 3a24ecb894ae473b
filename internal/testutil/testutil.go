// Package testutil provides shared test helpers for content sources, content
// directories and index databases.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/storage"
)

// MemSource is an in-memory storage.Source that records every requested path.
type MemSource struct {
	mu    sync.Mutex
	files map[string]string
	fail  map[string]error
	calls []string
}

// NewMemSource creates a MemSource holding files keyed by path.
func NewMemSource(files map[string]string) *MemSource {
	if files == nil {
		files = map[string]string{}
	}
	return &MemSource{files: files, fail: map[string]error{}}
}

// Fail makes reads of path return err.
func (m *MemSource) Fail(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[path] = err
}

// Read implements storage.Source.
func (m *MemSource) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	if err, ok := m.fail[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &storage.StatusError{Path: path, Code: 404}
	}
	return []byte(data), nil
}

// Calls returns the paths requested so far.
func (m *MemSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Requested reports whether path was read.
func (m *MemSource) Requested(path string) bool {
	for _, c := range m.Calls() {
		if c == path {
			return true
		}
	}
	return false
}

// Manifest encodes names as a manifest payload.
func Manifest(names ...string) string {
	if names == nil {
		names = []string{}
	}
	data, _ := json.Marshal(names)
	return string(data)
}

// ContentDir writes files (path → content) under a temp directory and
// returns the directory with an FS rooted at it.
func ContentDir(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for p, data := range files {
		WriteFile(t, dir, p, data)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes one file under dir, creating parents.
func WriteFile(t *testing.T, dir, p, data string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestDB creates a temporary index database that is automatically closed.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "folio-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
