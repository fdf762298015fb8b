package payfast

import "strings"

var typographicReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
	" ", " ", // non-breaking space
)

// SanitizeText normalizes free-text fields before they enter the signed field
// set: typographic punctuation becomes its ASCII equivalent, anything outside
// printable ASCII is dropped, and runs of whitespace collapse to one space.
// The provider hashes the exact bytes it receives, so what we sign has to be
// what survives their processing.
func SanitizeText(s string) string {
	s = typographicReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r < 0x7F {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
