package docx

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// PageSize is a page size in twips.
type PageSize struct {
	Name   string
	Width  int
	Height int
}

// Standard page sizes.
var (
	PageLetter = PageSize{Name: "Letter", Width: 12240, Height: 15840}
	PageA4     = PageSize{Name: "A4", Width: 11906, Height: 16838}
)

// PageSizeByName resolves Letter or A4 (case-insensitive).
func PageSizeByName(name string) (PageSize, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "letter":
		return PageLetter, true
	case "a4":
		return PageA4, true
	default:
		return PageSize{}, false
	}
}

// Margins are page margins in inches.
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Properties are the core document properties stored in docProps/core.xml.
type Properties struct {
	Title       string
	Subject     string
	Creator     string
	Keywords    string
	Description string
}

type blockKind string

const (
	blockParagraph blockKind = "paragraph"
	blockBreak     blockKind = "break"
	blockTOC       blockKind = "toc"
)

type block struct {
	kind        blockKind
	style       string
	align       Alignment
	lines       []string
	instr       string
	placeholder string
}

// DefaultTOCPlaceholder is shown inside the TOC field until the viewer
// updates it.
const DefaultTOCPlaceholder = "Right-click and choose Update Field to build the table of contents."

// Option configures a Document at construction.
type Option func(*Document)

// WithPageSize sets the page size.
func WithPageSize(size PageSize) Option {
	return func(d *Document) {
		if size.Width > 0 && size.Height > 0 {
			d.page = size
		}
	}
}

// WithProperties sets the core document properties.
func WithProperties(props Properties) Option {
	return func(d *Document) {
		d.props = props
	}
}

// WithUpdateFieldsOnOpen asks the viewer to refresh fields (TOC, page
// numbers) when the file is opened. Enabled by default.
func WithUpdateFieldsOnOpen(enabled bool) Option {
	return func(d *Document) {
		d.updateFields = enabled
	}
}

// Document is an in-memory WordprocessingML document.
type Document struct {
	props        Properties
	page         PageSize
	margins      Margins
	styles       []Style
	fonts        []FontDecl
	blocks       []block
	footer       Alignment
	updateFields bool
}

// New creates an empty Letter-sized document with one-inch margins and the
// built-in styles.
func New(options ...Option) *Document {
	d := &Document{
		page:         PageLetter,
		margins:      Margins{Left: 1, Right: 1, Top: 1, Bottom: 1},
		styles:       defaultStyles(),
		updateFields: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// DefineStyle adds a style or replaces the one with the same ID. Marking a
// style Default clears the flag on every other style.
func (d *Document) DefineStyle(style Style) error {
	if err := style.validate(); err != nil {
		return err
	}
	if style.Name == "" {
		style.Name = style.ID
	}
	if style.Default {
		for i := range d.styles {
			d.styles[i].Default = false
		}
	}
	for i, existing := range d.styles {
		if existing.ID == style.ID {
			d.styles[i] = style
			return nil
		}
	}
	d.styles = append(d.styles, style)
	return nil
}

// Style returns the style with the given ID.
func (d *Document) Style(id string) (Style, bool) {
	for _, style := range d.styles {
		if style.ID == id {
			return style, true
		}
	}
	return Style{}, false
}

// Styles returns every style in definition order.
func (d *Document) Styles() []Style {
	return append([]Style(nil), d.styles...)
}

// DeclareFont adds or replaces a font table entry.
func (d *Document) DeclareFont(font FontDecl) error {
	if strings.TrimSpace(font.Name) == "" {
		return errors.New("docx: font name is required")
	}
	if font.Family == "" {
		font.Family = "auto"
	}
	for i, existing := range d.fonts {
		if strings.EqualFold(existing.Name, font.Name) {
			d.fonts[i] = font
			return nil
		}
	}
	d.fonts = append(d.fonts, font)
	return nil
}

// SetMargins sets the page margins. Values are stored at twip precision, so
// each margin must round to at least one twip and the margins must leave room
// for text on the current page.
func (d *Document) SetMargins(m Margins) error {
	sides := []struct {
		name  string
		value float64
	}{{"left", m.Left}, {"right", m.Right}, {"top", m.Top}, {"bottom", m.Bottom}}
	for _, side := range sides {
		if math.IsNaN(side.value) || math.IsInf(side.value, 0) || side.value <= 0 {
			return fmt.Errorf("docx: %s margin must be positive, got %v", side.name, side.value)
		}
		if !fits(side.value, TwipsPerInch, MaxTwips) {
			return fmt.Errorf("docx: %s margin %v is outside 1 to %d twips", side.name, side.value, MaxTwips)
		}
	}
	if err := checkTextArea(m, d.page); err != nil {
		return err
	}
	d.margins = m
	return nil
}

func checkTextArea(m Margins, page PageSize) error {
	if InchesToTwips(m.Left)+InchesToTwips(m.Right) >= page.Width {
		return fmt.Errorf("docx: left and right margins exceed the %s page width", page.Name)
	}
	if InchesToTwips(m.Top)+InchesToTwips(m.Bottom) >= page.Height {
		return fmt.Errorf("docx: top and bottom margins exceed the %s page height", page.Name)
	}
	return nil
}

// Margins returns the configured margins.
func (d *Document) Margins() Margins {
	return d.margins
}

// SetPageSize sets the page size.
func (d *Document) SetPageSize(size PageSize) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("docx: invalid page size %dx%d", size.Width, size.Height)
	}
	if err := checkTextArea(d.margins, size); err != nil {
		return err
	}
	d.page = size
	return nil
}

// PageSize returns the configured page size.
func (d *Document) PageSize() PageSize {
	return d.page
}

// ParagraphOption customises a paragraph added with AddParagraph.
type ParagraphOption func(*block)

// WithStyle applies a named style instead of Normal.
func WithStyle(id string) ParagraphOption {
	return func(b *block) {
		b.style = id
	}
}

// WithAlignment overrides the style's justification.
func WithAlignment(align Alignment) ParagraphOption {
	return func(b *block) {
		b.align = align
	}
}

// AddParagraph appends a paragraph. Newlines in text become line breaks.
func (d *Document) AddParagraph(text string, options ...ParagraphOption) error {
	b := block{kind: blockParagraph, style: StyleNormal}
	for _, opt := range options {
		if opt != nil {
			opt(&b)
		}
	}
	if _, ok := d.Style(b.style); !ok {
		return fmt.Errorf("docx: style %q is not defined", b.style)
	}
	b.lines = strings.Split(text, "\n")
	d.blocks = append(d.blocks, b)
	return nil
}

// AddHeading appends a heading paragraph. Level 0 uses the Title style; levels
// 1-9 use HeadingN, which must be defined.
func (d *Document) AddHeading(text string, level int) error {
	if level < 0 || level > 9 {
		return fmt.Errorf("docx: heading level %d out of range", level)
	}
	return d.AddParagraph(text, WithStyle(HeadingStyleID(level)))
}

// AddTOC appends a table-of-contents field covering heading levels from..to.
// The field is left for the viewer to compute.
func (d *Document) AddTOC(from, to int) error {
	if from < 1 || to > 9 || from > to {
		return fmt.Errorf("docx: invalid TOC range %d-%d", from, to)
	}
	d.blocks = append(d.blocks, block{
		kind:        blockTOC,
		instr:       fmt.Sprintf(`TOC \o "%d-%d" \h \z \u`, from, to),
		placeholder: DefaultTOCPlaceholder,
	})
	return nil
}

// AddPageBreak appends a paragraph holding a page break.
func (d *Document) AddPageBreak() {
	d.blocks = append(d.blocks, block{kind: blockBreak})
}

// SetPageNumberFooter adds a footer with a PAGE field.
func (d *Document) SetPageNumberFooter(align Alignment) {
	if align == "" {
		align = AlignCenter
	}
	d.footer = align
}

// Properties returns the core document properties.
func (d *Document) Properties() Properties {
	return d.props
}
