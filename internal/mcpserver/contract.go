package mcpserver

// EntryFormat describes the content entry layout that the parser accepts.
// LLM consumers read it before drafting entries.
const EntryFormat = `# folio Entry Format

Each entry is a UTF-8 text file at ` + "`" + `<category>/<file name>` + "`" + `. Categories are
` + "`" + `diary` + "`" + `, ` + "`" + `photos` + "`" + `, ` + "`" + `music` + "`" + ` and ` + "`" + `archive` + "`" + `.
A category only shows files listed in its manifest ` + "`" + `<category>/index.json` + "`" + `,
a JSON array of file names:

` + "```" + `json
["2024-03-01.md", "2024-02-14.md"]
` + "```" + `

## Structure

` + "```" + `markdown
---
title: First light
date: 2024-03-01
featured: true
image: /media/photos/first-light.jpg
caption: "Sunrise: the lake, 6am"
---

Body text in Markdown.
` + "```" + `

## Frontmatter rules

1. The opening ` + "`" + `---` + "`" + ` must be the very first line. The block ends at the first
   following ` + "`" + `---` + "`" + ` line.
2. One ` + "`" + `key: value` + "`" + ` pair per line, split at the first colon.
3. This is NOT YAML. Every value is a plain string. Lists, nested maps and
   multi-line values are not supported.
4. Values starting with ` + "`" + `-` + "`" + ` and empty values are dropped. Wrap such a value in
   quotes to keep it: ` + "`" + `mood: "-ish"` + "`" + `.
5. One pair of matching ` + "`" + `"` + "`" + ` or ` + "`" + `'` + "`" + ` quotes is removed. No escape sequences.
6. A repeated key keeps its last value.

## Recognized fields

- ` + "`" + `title` + "`" + `: display title (defaults to "Untitled").
- ` + "`" + `date` + "`" + `: ` + "`" + `YYYY-MM-DD` + "`" + ` or RFC 3339. Entries sort newest first; undated
  entries go last.
- ` + "`" + `featured` + "`" + `: exactly ` + "`" + `true` + "`" + ` to appear on the featured page.
- ` + "`" + `image` + "`" + `, ` + "`" + `caption` + "`" + `: photo entries.
- ` + "`" + `artist` + "`" + `, ` + "`" + `link` + "`" + `: music entries.

Unknown fields are kept and returned by the API.
`
