package index

// EntryIndex defines the index operations consumers rely on.
type EntryIndex interface {
	UpsertEntry(row EntryRow, body string) error
	DeleteEntry(path string) error
	Checksums(category string) (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies EntryIndex at compile time.
var _ EntryIndex = (*DB)(nil)
