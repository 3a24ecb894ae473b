// Package checksum fingerprints parsed entries so the search index can skip
// unchanged documents.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Entry returns the hex-encoded SHA-256 digest of metadata (in key order)
// followed by body. Two documents that parse to the same entry share a
// digest even if their raw text differs, e.g. in quoting or line endings.
func Entry(metadata map[string]string, body string) string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(metadata[k])
		b.WriteByte(0)
	}
	b.WriteString(body)

	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}
