//go:build !sqlite_fts5

package index

import "testing"

func TestSearch_LikeWildcardsAreLiteral(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(EntryRow{Path: "diary/a.md", Category: "diary", Name: "a.md", Title: "Sure", Date: "2024-01-01"}, "100% sure")
	_ = db.UpsertEntry(EntryRow{Path: "diary/b.md", Category: "diary", Name: "b.md", Title: "Percent", Date: "2024-01-02"}, "100 percent")
	_ = db.UpsertEntry(EntryRow{Path: "diary/c.md", Category: "diary", Name: "c.md", Title: "Path", Date: "2024-01-03"}, `C:\temp\notes`)

	tests := []struct {
		query string
		want  []string
	}{
		{"100%", []string{"diary/a.md"}},
		{"_", nil},
		{"%", []string{"diary/a.md"}},
		{`\temp`, []string{"diary/c.md"}},
		{"100", []string{"diary/b.md", "diary/a.md"}},
	}
	for _, tt := range tests {
		results, err := db.Search(tt.query, 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(results) != len(tt.want) {
			t.Fatalf("Search(%q) = %d results, want %d", tt.query, len(results), len(tt.want))
		}
		for i, r := range results {
			if r.Path != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, r.Path, tt.want[i])
			}
		}
	}
}
