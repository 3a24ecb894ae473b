package frontmatter

import (
	"reflect"
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	doc := Parse("---\ntitle: Hello\ndate: 2024-03-01\n---\n# Hello\nBody text.\n")
	want := map[string]string{"title": "Hello", "date": "2024-03-01"}
	if !reflect.DeepEqual(doc.Metadata, want) {
		t.Errorf("metadata = %v, want %v", doc.Metadata, want)
	}
	if doc.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	inputs := []string{
		"# Just a heading\nSome text.\n",
		"",
		"\n---\ntitle: x\n---\nbody",
		" ---\ntitle: x\n---\n",
		"----\ntitle: x\n---\n",
		"---\ntitle: never closed\n",
	}
	for _, in := range inputs {
		doc := Parse(in)
		if len(doc.Metadata) != 0 {
			t.Errorf("Parse(%q) metadata = %v, want empty", in, doc.Metadata)
		}
		if doc.Metadata == nil {
			t.Errorf("Parse(%q) metadata is nil", in)
		}
		if doc.Body != in {
			t.Errorf("Parse(%q) body = %q, want input unchanged", in, doc.Body)
		}
	}
}

func TestParse_FirstClosingDelimiterWins(t *testing.T) {
	doc := Parse("---\ntitle: A\n---\nintro\n---\nsubtitle: not metadata\n---\nrest")
	if doc.Metadata["title"] != "A" {
		t.Errorf("title = %q", doc.Metadata["title"])
	}
	if _, ok := doc.Metadata["subtitle"]; ok {
		t.Error("subtitle leaked from body into metadata")
	}
	if doc.Body != "intro\n---\nsubtitle: not metadata\n---\nrest" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_LongerDashLineIsNotDelimiter(t *testing.T) {
	doc := Parse("---\na: 1\n-----\nb: 2\n---\nbody")
	if doc.Metadata["a"] != "1" || doc.Metadata["b"] != "2" {
		t.Errorf("metadata = %v", doc.Metadata)
	}
	if doc.Body != "body" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_EmptyBlock(t *testing.T) {
	doc := Parse("---\n---\nbody")
	if len(doc.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty", doc.Metadata)
	}
	if doc.Body != "body" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_ClosingDelimiterAtEOF(t *testing.T) {
	doc := Parse("---\ntitle: x\n---")
	if doc.Metadata["title"] != "x" {
		t.Errorf("title = %q", doc.Metadata["title"])
	}
	if doc.Body != "" {
		t.Errorf("body = %q, want empty", doc.Body)
	}
}

func TestParse_CRLF(t *testing.T) {
	doc := Parse("---\r\ntitle: Windows\r\n---\r\nbody\r\n")
	if doc.Metadata["title"] != "Windows" {
		t.Errorf("title = %q", doc.Metadata["title"])
	}
	if doc.Body != "body\r\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_ListAndEmptyValuesDropped(t *testing.T) {
	doc := Parse("---\ntitle: Kept\ntags:\n  - go\n  - web\nmood: -sleepy\nempty:   \n---\n")
	want := map[string]string{"title": "Kept"}
	if !reflect.DeepEqual(doc.Metadata, want) {
		t.Errorf("metadata = %v, want %v", doc.Metadata, want)
	}
}

func TestParse_LinesWithoutColonIgnored(t *testing.T) {
	doc := Parse("---\njust words\ntitle: ok\n\n---\n")
	want := map[string]string{"title": "ok"}
	if !reflect.DeepEqual(doc.Metadata, want) {
		t.Errorf("metadata = %v, want %v", doc.Metadata, want)
	}
}

func TestParse_SplitsOnFirstColon(t *testing.T) {
	doc := Parse("---\nlink: https://example.com/a:b\ntime: 12:30\n---\n")
	if doc.Metadata["link"] != "https://example.com/a:b" {
		t.Errorf("link = %q", doc.Metadata["link"])
	}
	if doc.Metadata["time"] != "12:30" {
		t.Errorf("time = %q", doc.Metadata["time"])
	}
}

func TestParse_LastDuplicateWins(t *testing.T) {
	doc := Parse("---\ntitle: first\ntitle: second\n---\n")
	if doc.Metadata["title"] != "second" {
		t.Errorf("title = %q, want second", doc.Metadata["title"])
	}
}

func TestParse_Quotes(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{`a: "double"`, "double"},
		{`a: 'single'`, "single"},
		{`a: "it's"`, "it's"},
		{`a: "nested "inner" quotes"`, `nested "inner" quotes`},
		{`a: ""quoted twice""`, `"quoted twice"`},
		{`a: "mismatched'`, `"mismatched'`},
		{`a: 'open only`, `'open only`},
		{`a: "escaped \n stays"`, `escaped \n stays`},
		{`a: "-not a list"`, "-not a list"},
		{`a: "`, `"`},
	}
	for _, tc := range cases {
		doc := Parse("---\n" + tc.line + "\n---\n")
		if got := doc.Metadata["a"]; got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestParse_NoTypeCoercion(t *testing.T) {
	doc := Parse("---\nfeatured: true\ncount: 3\n---\n")
	if doc.Metadata["featured"] != "true" || doc.Metadata["count"] != "3" {
		t.Errorf("metadata = %v", doc.Metadata)
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := "---\ntitle: Once\n---\nbody line\n\nmore --- text\n"
	first := Parse(raw)
	second := Parse(first.Body)
	if second.Body != first.Body {
		t.Errorf("second body = %q, want %q", second.Body, first.Body)
	}
	if len(second.Metadata) != 0 {
		t.Errorf("second metadata = %v, want empty", second.Metadata)
	}
}

func TestSplit_NoBlock(t *testing.T) {
	block, body, ok := Split("plain")
	if ok || block != "" || body != "plain" {
		t.Errorf("Split = (%q, %q, %v)", block, body, ok)
	}
}
