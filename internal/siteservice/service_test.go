package siteservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/aggregate"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/testutil"
)

func testService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	_, store := testutil.ContentDir(t, files)
	f := content.NewFetcher(store)
	pages := []Page{
		{Policy: aggregate.Policy{Name: "home", Category: models.CategoryDiary, Limit: 2}, Slot: "recent-entries"},
		{Policy: aggregate.Policy{Name: "featured", Category: models.CategoryPhotos, FeaturedOnly: true}, Slot: "featured-entries"},
	}
	r := render.New(render.Options{})
	return NewService(f, aggregate.New(f, nil), r, testutil.TestDB(t), pages, nil)
}

var siteFiles = map[string]string{
	"diary/index.json":  testutil.Manifest("a.md", "b.md", "c.md"),
	"diary/a.md":        "---\ntitle: Alpha\ndate: 2024-01-01\n---\nfirst",
	"diary/b.md":        "---\ntitle: Beta\ndate: 2024-02-01\n---\nsecond",
	"diary/c.md":        "---\ntitle: Gamma\ndate: 2024-03-01\n---\nthird",
	"photos/index.json": testutil.Manifest("p.md"),
	"photos/p.md":       "---\ntitle: Lake\ndate: 2024-01-01\n---\n",
}

func TestPages(t *testing.T) {
	svc := testService(t, siteFiles)
	pages := svc.Pages()
	require.Len(t, pages, 2)
	assert.Equal(t, "home", pages[0].Name)
	assert.Equal(t, "recent-entries", pages[0].Slot)
	assert.Equal(t, 2, pages[0].Limit)
	assert.True(t, pages[1].FeaturedOnly)
}

func TestBuildPage(t *testing.T) {
	svc := testService(t, siteFiles)

	view, err := svc.BuildPage(context.Background(), "home")
	require.NoError(t, err)
	assert.False(t, view.Empty)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "b.md", view.Entries[0].Name)
	assert.Equal(t, "a.md", view.Entries[1].Name)
	assert.Contains(t, view.HTML, "Beta")
	assert.NotContains(t, view.HTML, "Gamma")
}

func TestBuildPage_EmptyRendersPlaceholder(t *testing.T) {
	svc := testService(t, siteFiles)

	view, err := svc.BuildPage(context.Background(), "featured")
	require.NoError(t, err)
	assert.True(t, view.Empty)
	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
	assert.Contains(t, view.HTML, render.DefaultPlaceholder)
}

func TestBuildPage_Parallel(t *testing.T) {
	svc := testService(t, siteFiles)
	want, err := svc.BuildPage(context.Background(), "home")
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := svc.BuildPage(context.Background(), "home")
			require.NoError(t, err)
			assert.Equal(t, want.HTML, got.HTML)
			assert.Equal(t, "Home", got.Title)
		})
	}
}

func TestBuildPage_Unknown(t *testing.T) {
	svc := testService(t, siteFiles)
	_, err := svc.BuildPage(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrUnknownPage)
}

func TestCategory(t *testing.T) {
	svc := testService(t, siteFiles)

	entries, err := svc.Category(context.Background(), "diary")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "diary/c.md", entries[0].Path)

	_, err = svc.Category(context.Background(), "recipes")
	assert.ErrorIs(t, err, apperr.ErrUnknownCategory)
}

func TestEntry(t *testing.T) {
	svc := testService(t, siteFiles)

	e, err := svc.Entry(context.Background(), "diary", "a.md")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", e.Metadata["title"])
	assert.Equal(t, "first", e.Body)
	assert.Equal(t, "first", e.HTML)

	_, err = svc.Entry(context.Background(), "diary", "missing.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Entry(context.Background(), "recipes", "a.md")
	assert.ErrorIs(t, err, apperr.ErrUnknownCategory)
}

func TestReindexAndSearch(t *testing.T) {
	svc := testService(t, siteFiles)

	st, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, st.Indexed)

	res, err := svc.Search(context.Background(), "Gamma", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "diary/c.md", res[0].Path)

	res, err = svc.Search(context.Background(), "volcano", 10)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}
