package docx

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/goliatone/go-thesisforge/pkg/render/template"
	"github.com/goliatone/go-thesisforge/pkg/render/template/gotemplate"
)

// ContentType is the MIME type of a .docx package.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// packageTime is stamped on every zip entry so output is reproducible.
var packageTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	partsOnce   sync.Once
	partsEngine template.TemplateRenderer
	partsErr    error
)

func engine() (template.TemplateRenderer, error) {
	partsOnce.Do(func() {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			partsErr = fmt.Errorf("docx: templates: %w", err)
			return
		}
		partsEngine, partsErr = gotemplate.New(
			gotemplate.WithFS(sub),
			gotemplate.WithName("docx"),
		)
	})
	return partsEngine, partsErr
}

type part struct {
	name     string
	template string
}

func (d *Document) parts() []part {
	parts := []part{
		{name: "[Content_Types].xml", template: "content_types.xml"},
		{name: "_rels/.rels", template: "package.rels"},
		{name: "docProps/core.xml", template: "core.xml"},
		{name: "docProps/app.xml", template: "app.xml"},
		{name: "word/document.xml", template: "document.xml"},
		{name: "word/_rels/document.xml.rels", template: "document.xml.rels"},
		{name: "word/styles.xml", template: "styles.xml"},
		{name: "word/settings.xml", template: "settings.xml"},
		{name: "word/fontTable.xml", template: "font_table.xml"},
	}
	if d.footer != "" {
		parts = append(parts, part{name: "word/footer1.xml", template: "footer.xml"})
	}
	return parts
}

// WriteTo serializes the document as a .docx package.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	renderer, err := engine()
	if err != nil {
		return 0, err
	}

	counter := &countingWriter{w: w}
	zw := zip.NewWriter(counter)
	closed := false
	defer func() {
		if !closed {
			_ = zw.Close()
		}
	}()

	view := d.view()
	for _, p := range d.parts() {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: packageTime,
		})
		if err != nil {
			return counter.n, fmt.Errorf("docx: create %s: %w", p.name, err)
		}
		if _, err := renderer.RenderTemplate(p.template, view, entry); err != nil {
			return counter.n, fmt.Errorf("docx: render %s: %w", p.name, err)
		}
	}

	closed = true
	if err := zw.Close(); err != nil {
		return counter.n, fmt.Errorf("docx: finalise package: %w", err)
	}
	return counter.n, nil
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path, creating or truncating the file.
func (d *Document) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("docx: create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("docx: close %s: %w", path, closeErr)
		}
	}()

	if _, err = d.WriteTo(f); err != nil {
		return err
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// view flattens the document into plain maps for the part templates.
func (d *Document) view() map[string]any {
	styles := make([]any, 0, len(d.styles))
	for _, style := range d.styles {
		styles = append(styles, styleView(style))
	}

	fonts := make([]any, 0, len(d.fonts))
	for _, font := range d.fonts {
		fonts = append(fonts, map[string]any{
			"name":   xmlText(font.Name),
			"alt":    xmlText(font.AltName),
			"family": xmlText(font.Family),
		})
	}

	blocks := make([]any, 0, len(d.blocks))
	for _, b := range d.blocks {
		lines := make([]any, 0, len(b.lines))
		for _, line := range b.lines {
			lines = append(lines, xmlText(line))
		}
		blocks = append(blocks, map[string]any{
			"kind":        string(b.kind),
			"style":       xmlText(b.style),
			"align":       string(b.align),
			"lines":       lines,
			"instr":       xmlText(b.instr),
			"placeholder": xmlText(b.placeholder),
		})
	}

	return map[string]any{
		"properties": map[string]any{
			"title":       xmlText(d.props.Title),
			"subject":     xmlText(d.props.Subject),
			"creator":     xmlText(d.props.Creator),
			"keywords":    xmlText(d.props.Keywords),
			"description": xmlText(d.props.Description),
		},
		"page": map[string]any{
			"width":  d.page.Width,
			"height": d.page.Height,
		},
		"margins": map[string]any{
			"left":   InchesToTwips(d.margins.Left),
			"right":  InchesToTwips(d.margins.Right),
			"top":    InchesToTwips(d.margins.Top),
			"bottom": InchesToTwips(d.margins.Bottom),
		},
		"styles":       styles,
		"fonts":        fonts,
		"blocks":       blocks,
		"footer":       d.footer != "",
		"footerAlign":  string(d.footer),
		"updateFields": d.updateFields,
	}
}

func styleView(s Style) map[string]any {
	line := 0
	if s.LineSpacing > 0 {
		line = SpacingToLine(s.LineSpacing)
	}
	outline := 0
	if s.OutlineLevel > 0 {
		outline = s.OutlineLevel - 1
	}
	return map[string]any{
		"id":         xmlText(s.ID),
		"name":       xmlText(s.Name),
		"basedOn":    xmlText(s.BasedOn),
		"next":       xmlText(s.Next),
		"font":       xmlText(s.Font),
		"size":       PointsToHalfPoints(s.Size),
		"bold":       s.Bold,
		"italic":     s.Italic,
		"color":      xmlText(s.Color),
		"before":     PointsToTwips(s.SpaceBefore),
		"after":      PointsToTwips(s.SpaceAfter),
		"line":       line,
		"align":      string(s.Alignment),
		"hasOutline": s.OutlineLevel > 0,
		"outline":    outline,
		"keepNext":   s.KeepNext,
		"isDefault":  s.Default,
	}
}

// xmlText drops runes XML 1.0 cannot carry, such as C0 control characters.
// The template engine escapes markup but leaves these in place.
func xmlText(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF, r >= 0xE000 && r <= 0xFFFD, r >= 0x10000 && r <= 0x10FFFF:
			return r
		default:
			return -1
		}
	}, value)
}
