package catalog

import "strings"

// SafeID maps an identifier onto a folder name made of ASCII letters, digits,
// dot, dash and underscore. Every other rune becomes an underscore and leading
// dots are dropped so the result never escapes the output root.
func SafeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
