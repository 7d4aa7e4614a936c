package docx

import (
	"errors"
	"fmt"
	"strings"
)

// Alignment is a paragraph justification value (ST_Jc).
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Built-in style identifiers.
const (
	StyleNormal   = "Normal"
	StyleTitle    = "Title"
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
	StyleHeading3 = "Heading3"
	StyleCaption  = "Caption"
	StyleFooter   = "Footer"
)

// HeadingStyleID returns the style identifier used for a heading level. Level
// 0 is the document title.
func HeadingStyleID(level int) string {
	if level == 0 {
		return StyleTitle
	}
	return fmt.Sprintf("Heading%d", level)
}

// Style is a named paragraph style. Sizes and spacing are in points, Color is
// an RRGGBB hex string and LineSpacing a multiplier (0 inherits).
type Style struct {
	ID           string
	Name         string
	BasedOn      string
	Next         string
	Font         string
	Size         float64
	Bold         bool
	Italic       bool
	Color        string
	SpaceBefore  float64
	SpaceAfter   float64
	LineSpacing  float64
	Alignment    Alignment
	OutlineLevel int
	KeepNext     bool
	Default      bool
}

func (s Style) validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("docx: style id is required")
	}
	if s.Size < 0 {
		return fmt.Errorf("docx: style %q: font size must not be negative", s.ID)
	}
	if s.LineSpacing < 0 {
		return fmt.Errorf("docx: style %q: line spacing must not be negative", s.ID)
	}
	if s.Size != 0 && !fits(s.Size, 2, MaxHalfPoints) {
		return fmt.Errorf("docx: style %q: font size %v is outside 0.5 to 1638 points", s.ID, s.Size)
	}
	if s.LineSpacing != 0 && !fits(s.LineSpacing, lineUnit, MaxLines*lineUnit) {
		return fmt.Errorf("docx: style %q: line spacing %v is outside 1/240 to %d lines", s.ID, s.LineSpacing, MaxLines)
	}
	if s.SpaceBefore < 0 || s.SpaceAfter < 0 {
		return fmt.Errorf("docx: style %q: paragraph spacing must not be negative", s.ID)
	}
	if !(s.SpaceBefore*TwipsPerPoint <= MaxTwips) || !(s.SpaceAfter*TwipsPerPoint <= MaxTwips) {
		return fmt.Errorf("docx: style %q: paragraph spacing must not exceed %d points", s.ID, MaxTwips/TwipsPerPoint)
	}
	if s.OutlineLevel < 0 || s.OutlineLevel > 9 {
		return fmt.Errorf("docx: style %q: outline level must be between 0 and 9", s.ID)
	}
	return nil
}

func defaultStyles() []Style {
	return []Style{
		{ID: StyleNormal, Name: "Normal", Font: "Calibri", Size: 11, LineSpacing: 1, Default: true},
		{ID: StyleTitle, Name: "Title", BasedOn: StyleNormal, Next: StyleNormal, Size: 28, Alignment: AlignCenter, SpaceAfter: 12},
		{ID: StyleHeading1, Name: "heading 1", BasedOn: StyleNormal, Next: StyleNormal, Size: 16, Bold: true, OutlineLevel: 1, KeepNext: true},
		{ID: StyleHeading2, Name: "heading 2", BasedOn: StyleNormal, Next: StyleNormal, Size: 13, Bold: true, OutlineLevel: 2, KeepNext: true},
		{ID: StyleHeading3, Name: "heading 3", BasedOn: StyleNormal, Next: StyleNormal, Size: 12, Bold: true, OutlineLevel: 3, KeepNext: true},
		{ID: StyleCaption, Name: "caption", BasedOn: StyleNormal, Next: StyleNormal, Size: 9, Italic: true},
		{ID: StyleFooter, Name: "footer", BasedOn: StyleNormal},
	}
}

// FontDecl declares a font in the font table. AltName names the family a
// viewer should substitute when Name is not installed; Family is one of
// roman, swiss, modern, script, decorative or auto.
type FontDecl struct {
	Name    string
	AltName string
	Family  string
}
