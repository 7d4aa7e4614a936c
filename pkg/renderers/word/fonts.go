package word

import (
	"strings"

	"github.com/goliatone/go-thesisforge/pkg/docx"
)

// FallbackFont is declared as the alternate family for fonts missing from the
// known-font table.
const FallbackFont = "Times New Roman"

// FontTable maps lower-cased family names to their font table declaration.
type FontTable map[string]docx.FontDecl

// DefaultFonts returns the families shipped with common office suites.
func DefaultFonts() FontTable {
	table := FontTable{}
	for family, names := range map[string][]string{
		"roman": {
			"Times New Roman", "Cambria", "Georgia", "Garamond", "Book Antiqua",
			"Palatino Linotype", "Century Schoolbook", "Constantia", "Baskerville Old Face",
			"Liberation Serif", "Linux Libertine", "Cambria Math",
		},
		"swiss": {
			"Arial", "Calibri", "Helvetica", "Verdana", "Tahoma", "Segoe UI",
			"Trebuchet MS", "Century Gothic", "Gill Sans MT", "Liberation Sans", "Aptos",
		},
		"modern": {"Courier New", "Consolas", "Lucida Console", "Liberation Mono"},
	} {
		for _, name := range names {
			table.Add(docx.FontDecl{Name: name, Family: family})
		}
	}
	return table
}

// Add registers a font declaration.
func (t FontTable) Add(font docx.FontDecl) {
	t[fontKey(font.Name)] = font
}

// Lookup finds a font by family name, ignoring case and surrounding space.
func (t FontTable) Lookup(name string) (docx.FontDecl, bool) {
	font, ok := t[fontKey(name)]
	return font, ok
}

func fontKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// resolveFont returns the declaration to write for name. Unknown names keep
// the requested family and carry FallbackFont as their alternate.
func (t FontTable) resolveFont(name string) (docx.FontDecl, bool) {
	if font, ok := t.Lookup(name); ok {
		font.Name = strings.TrimSpace(name)
		return font, true
	}
	fallback, ok := t.Lookup(FallbackFont)
	if !ok {
		fallback = docx.FontDecl{Name: FallbackFont, Family: "roman"}
	}
	return docx.FontDecl{
		Name:    strings.TrimSpace(name),
		AltName: fallback.Name,
		Family:  fallback.Family,
	}, false
}
