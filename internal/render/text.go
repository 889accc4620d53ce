package render

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// encodeText converts s to the single-byte encoding the core PDF fonts use.
// Runes outside Windows-1252 become '?'.
func encodeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
