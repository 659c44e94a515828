// Package text cleans label text read from syntax files before it is written
// to COPY-format output
// Pipeline order for Clean
// 1 legacy bytes decoded as Windows-1252 when the input is not valid UTF-8
// 2 non-whitespace control characters and C1 controls removed
// 3 Unicode NFC normalization
// 4 whitespace collapsed to single spaces and trimmed
package text

import (
	std "strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains; a chain is stateful and not safe to share
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.Predicate(isControl)),
			norm.NFC,
		)
	},
}

// whitespace controls survive so the final Fields pass turns them into spaces
func isControl(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// ToUTF8 returns s unchanged when it is valid UTF-8, otherwise decodes it as
// Windows-1252, the encoding of older IPUMS syntax files
func ToUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return std.ToValidUTF8(s, "")
	}
	return out
}

// Clean returns label text in the canonical form described in the package doc
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = ToUTF8(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = s
	}
	return std.Join(std.Fields(out), " ")
}

// EscapeCopy escapes backslash, tab, newline, and carriage return so the value
// is safe inside a PostgreSQL COPY text-format field
func EscapeCopy(s string) string {
	if !std.ContainsAny(s, "\\\t\n\r") {
		return s
	}
	var b std.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
