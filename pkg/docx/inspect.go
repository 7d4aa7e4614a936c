package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Paragraph is one paragraph read back from word/document.xml.
type Paragraph struct {
	Style     string
	Alignment Alignment
	Text      string
	Field     string
	PageBreak bool
}

// Heading is a paragraph carrying a Title or HeadingN style.
type Heading struct {
	Level int
	Text  string
}

// Snapshot is the structural content of a .docx package.
type Snapshot struct {
	PageSize     PageSize
	Margins      Margins
	Styles       []Style
	Fonts        []FontDecl
	Paragraphs   []Paragraph
	Footer       bool
	FooterField  string
	UpdateFields bool
	Properties   Properties
	Parts        []string
}

// Style returns a style by ID.
func (s Snapshot) Style(id string) (Style, bool) {
	for _, style := range s.Styles {
		if style.ID == id {
			return style, true
		}
	}
	return Style{}, false
}

// DefaultStyle returns the style flagged as default paragraph style.
func (s Snapshot) DefaultStyle() (Style, bool) {
	for _, style := range s.Styles {
		if style.Default {
			return style, true
		}
	}
	return Style{}, false
}

// Headings lists Title and HeadingN paragraphs in document order.
func (s Snapshot) Headings() []Heading {
	var out []Heading
	for _, p := range s.Paragraphs {
		if p.Style == StyleTitle {
			out = append(out, Heading{Level: 0, Text: p.Text})
			continue
		}
		if rest, ok := strings.CutPrefix(p.Style, "Heading"); ok {
			if level, err := strconv.Atoi(rest); err == nil {
				out = append(out, Heading{Level: level, Text: p.Text})
			}
		}
	}
	return out
}

// Fields lists field instructions (TOC, PAGE) found in the body.
func (s Snapshot) Fields() []string {
	var out []string
	for _, p := range s.Paragraphs {
		if p.Field != "" {
			out = append(out, p.Field)
		}
	}
	return out
}

// InspectFile reads the package at path.
func InspectFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("docx: read %s: %w", path, err)
	}
	return InspectBytes(data)
}

// InspectBytes reads an in-memory package.
func InspectBytes(data []byte) (Snapshot, error) {
	return Inspect(bytes.NewReader(data), int64(len(data)))
}

// Inspect reads the structural content of a .docx package.
func Inspect(r io.ReaderAt, size int64) (Snapshot, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Snapshot{}, fmt.Errorf("docx: open package: %w", err)
	}

	var snap Snapshot
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
		snap.Parts = append(snap.Parts, f.Name)
	}

	readers := []struct {
		name     string
		required bool
		parse    func(io.Reader, *Snapshot) error
	}{
		{name: "word/document.xml", required: true, parse: parseDocument},
		{name: "word/styles.xml", required: true, parse: parseStyles},
		{name: "word/settings.xml", parse: parseSettings},
		{name: "word/fontTable.xml", parse: parseFonts},
		{name: "word/footer1.xml", parse: parseFooter},
		{name: "docProps/core.xml", parse: parseCore},
	}
	for _, entry := range readers {
		f, ok := files[entry.name]
		if !ok {
			if entry.required {
				return Snapshot{}, fmt.Errorf("docx: package is missing %s", entry.name)
			}
			continue
		}
		if err := parsePart(f, &snap, entry.parse); err != nil {
			return Snapshot{}, fmt.Errorf("docx: parse %s: %w", entry.name, err)
		}
	}
	return snap, nil
}

func parsePart(f *zip.File, snap *Snapshot, parse func(io.Reader, *Snapshot) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return parse(rc, snap)
}

func parseDocument(r io.Reader, snap *Snapshot) error {
	dec := xml.NewDecoder(r)
	var (
		current *Paragraph
		inText  bool
		inInstr bool
		inPPr   bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current = &Paragraph{}
			case "pPr":
				inPPr = true
			case "pStyle":
				if current != nil {
					current.Style = attr(t, "val")
				}
			case "jc":
				if current != nil && inPPr {
					current.Alignment = Alignment(attr(t, "val"))
				}
			case "t":
				inText = true
			case "instrText":
				inInstr = true
			case "br":
				if current == nil {
					continue
				}
				if attr(t, "type") == "page" {
					current.PageBreak = true
				} else {
					current.Text += "\n"
				}
			case "pgSz":
				snap.PageSize = PageSize{Width: atoi(attr(t, "w")), Height: atoi(attr(t, "h"))}
				if size, ok := matchPageSize(snap.PageSize); ok {
					snap.PageSize = size
				}
			case "pgMar":
				snap.Margins = Margins{
					Left:   TwipsToInches(atoi(attr(t, "left"))),
					Right:  TwipsToInches(atoi(attr(t, "right"))),
					Top:    TwipsToInches(atoi(attr(t, "top"))),
					Bottom: TwipsToInches(atoi(attr(t, "bottom"))),
				}
			case "footerReference":
				snap.Footer = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if current != nil {
					current.Field = strings.TrimSpace(current.Field)
					snap.Paragraphs = append(snap.Paragraphs, *current)
				}
				current = nil
			case "pPr":
				inPPr = false
			case "t":
				inText = false
			case "instrText":
				inInstr = false
			}
		case xml.CharData:
			if current == nil {
				continue
			}
			if inText {
				current.Text += string(t)
			} else if inInstr {
				current.Field += string(t)
			}
		}
	}
}

func parseStyles(r io.Reader, snap *Snapshot) error {
	dec := xml.NewDecoder(r)
	var current *Style
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "style" {
				current = &Style{ID: attr(t, "styleId"), Default: onOff(attr(t, "default"), false)}
				continue
			}
			if current == nil {
				continue
			}
			switch t.Name.Local {
			case "name":
				current.Name = attr(t, "val")
			case "basedOn":
				current.BasedOn = attr(t, "val")
			case "next":
				current.Next = attr(t, "val")
			case "rFonts":
				current.Font = attr(t, "ascii")
			case "sz":
				current.Size = HalfPointsToPoints(atoi(attr(t, "val")))
			case "b":
				current.Bold = onOff(attr(t, "val"), true)
			case "i":
				current.Italic = onOff(attr(t, "val"), true)
			case "color":
				current.Color = attr(t, "val")
			case "keepNext":
				current.KeepNext = onOff(attr(t, "val"), true)
			case "spacing":
				current.SpaceBefore = TwipsToPoints(atoi(attr(t, "before")))
				current.SpaceAfter = TwipsToPoints(atoi(attr(t, "after")))
				if line := attr(t, "line"); line != "" {
					if rule := attr(t, "lineRule"); rule == "" || rule == "auto" {
						current.LineSpacing = LineToSpacing(atoi(line))
					}
				}
			case "jc":
				current.Alignment = Alignment(attr(t, "val"))
			case "outlineLvl":
				current.OutlineLevel = atoi(attr(t, "val")) + 1
			}
		case xml.EndElement:
			if t.Name.Local == "style" && current != nil {
				snap.Styles = append(snap.Styles, *current)
				current = nil
			}
		}
	}
}

func parseSettings(r io.Reader, snap *Snapshot) error {
	return walk(r, func(t xml.StartElement) {
		if t.Name.Local == "updateFields" {
			snap.UpdateFields = onOff(attr(t, "val"), true)
		}
	})
}

func parseFonts(r io.Reader, snap *Snapshot) error {
	return walk(r, func(t xml.StartElement) {
		switch t.Name.Local {
		case "font":
			snap.Fonts = append(snap.Fonts, FontDecl{Name: attr(t, "name")})
		case "altName":
			if n := len(snap.Fonts); n > 0 {
				snap.Fonts[n-1].AltName = attr(t, "val")
			}
		case "family":
			if n := len(snap.Fonts); n > 0 {
				snap.Fonts[n-1].Family = attr(t, "val")
			}
		}
	})
}

func parseFooter(r io.Reader, snap *Snapshot) error {
	dec := xml.NewDecoder(r)
	inInstr := false
	var field strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			snap.FooterField = strings.TrimSpace(field.String())
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inInstr = t.Name.Local == "instrText"
		case xml.EndElement:
			if t.Name.Local == "instrText" {
				inInstr = false
			}
		case xml.CharData:
			if inInstr {
				field.Write(t)
			}
		}
	}
}

func parseCore(r io.Reader, snap *Snapshot) error {
	dec := xml.NewDecoder(r)
	var element string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			element = t.Name.Local
		case xml.EndElement:
			element = ""
		case xml.CharData:
			value := string(t)
			switch element {
			case "title":
				snap.Properties.Title += value
			case "subject":
				snap.Properties.Subject += value
			case "creator":
				snap.Properties.Creator += value
			case "keywords":
				snap.Properties.Keywords += value
			case "description":
				snap.Properties.Description += value
			}
		}
	}
}

func walk(r io.Reader, visit func(xml.StartElement)) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if start, ok := tok.(xml.StartElement); ok {
			visit(start)
		}
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func atoi(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}

// onOff interprets an ST_OnOff attribute; an absent value means fallback.
func onOff(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback
	case "0", "false", "off":
		return false
	default:
		return true
	}
}

func matchPageSize(size PageSize) (PageSize, bool) {
	for _, known := range []PageSize{PageLetter, PageA4} {
		if known.Width == size.Width && known.Height == size.Height {
			return known, true
		}
	}
	return PageSize{}, false
}
