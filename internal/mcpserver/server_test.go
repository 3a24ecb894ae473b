package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/folio/internal/aggregate"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/siteservice"
	"github.com/starford/folio/internal/testutil"
)

func testServer(t *testing.T) (*Server, *siteservice.Service) {
	t.Helper()

	_, store := testutil.ContentDir(t, map[string]string{
		"diary/index.json": testutil.Manifest("a.md", "b.md"),
		"diary/a.md":       "---\ntitle: Alpha\ndate: 2024-01-01\n---\nhello lake",
		"diary/b.md":       "---\ntitle: Beta\ndate: 2024-02-01\n---\nhello hills",
	})
	f := content.NewFetcher(store)
	pages := []siteservice.Page{
		{Policy: aggregate.Policy{Name: "home", Category: models.CategoryDiary, Limit: 3}, Slot: "recent-entries"},
	}
	svc := siteservice.NewService(f, aggregate.New(f, nil), render.New(render.Options{}), testutil.TestDB(t), pages, nil)

	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "get_page":
		result, err = srv.getPage(ctx, req)
	case "read_entry":
		result, err = srv.readEntry(ctx, req)
	case "search_entries":
		result, err = srv.searchEntries(ctx, req)
	case "get_entry_format":
		result, err = srv.getEntryFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListPages(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_pages", map[string]interface{}{})
	var pages []siteservice.PageInfo
	if err := json.Unmarshal([]byte(resultText(r)), &pages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pages) != 1 || pages[0].Name != "home" || pages[0].Category != "diary" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestGetPage(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_page", map[string]interface{}{"name": "home"})
	if r.IsError {
		t.Fatalf("get_page error: %s", resultText(r))
	}
	var view siteservice.PageView
	if err := json.Unmarshal([]byte(resultText(r)), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Entries) != 2 || view.Entries[0].Name != "b.md" {
		t.Errorf("entries = %+v", view.Entries)
	}
}

func TestGetPageUnknown(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_page", map[string]interface{}{"name": "nope"})
	if !r.IsError {
		t.Fatal("expected error for unknown page")
	}
	if !strings.Contains(resultText(r), "unknown page") {
		t.Errorf("text = %q", resultText(r))
	}
}

func TestReadEntry(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_entry", map[string]interface{}{"category": "diary", "name": "a.md"})
	if r.IsError {
		t.Fatalf("read_entry error: %s", resultText(r))
	}
	var e siteservice.EntryView
	_ = json.Unmarshal([]byte(resultText(r)), &e)
	if e.Metadata["title"] != "Alpha" || e.Body != "hello lake" {
		t.Errorf("entry = %+v", e)
	}
}

func TestReadEntryMissing(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_entry", map[string]interface{}{"category": "diary", "name": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing entry")
	}
	r = callTool(t, srv, "read_entry", map[string]interface{}{"category": "diary"})
	if !r.IsError {
		t.Error("expected error for missing name argument")
	}
}

func TestSearchEntries(t *testing.T) {
	srv, svc := testServer(t)
	if _, err := svc.Reindex(context.Background()); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "search_entries", map[string]interface{}{"query": "hills"})
	if !strings.Contains(resultText(r), "diary/b.md") {
		t.Errorf("search = %q", resultText(r))
	}

	r = callTool(t, srv, "search_entries", map[string]interface{}{"query": "hello", "limit": float64(1)})
	var results []map[string]any
	_ = json.Unmarshal([]byte(resultText(r)), &results)
	if len(results) != 1 {
		t.Errorf("limited results = %d, want 1", len(results))
	}

	r = callTool(t, srv, "search_entries", map[string]interface{}{"query": "volcano"})
	if resultText(r) != "no entries found" {
		t.Errorf("empty search = %q", resultText(r))
	}
}

func TestGetEntryFormat(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_entry_format", map[string]interface{}{})
	if resultText(r) != EntryFormat {
		t.Error("entry format mismatch")
	}

	contents, err := srv.readEntryFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != "folio://entry-format" {
		t.Errorf("resource = %+v", contents[0])
	}
}
