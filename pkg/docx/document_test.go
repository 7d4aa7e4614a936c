package docx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-thesisforge/pkg/docx"
)

func TestDocument_RoundTripLayoutAndStyles(t *testing.T) {
	doc := docx.New(docx.WithPageSize(docx.PageA4), docx.WithProperties(docx.Properties{
		Title:   "Thesis Template",
		Creator: "thesisforge",
	}))
	if err := doc.SetMargins(docx.Margins{Left: 1.5, Right: 1, Top: 1.25, Bottom: 0.75}); err != nil {
		t.Fatalf("set margins: %v", err)
	}
	if err := doc.DefineStyle(docx.Style{
		ID:          docx.StyleNormal,
		Name:        "Normal",
		Font:        "Times New Roman",
		Size:        12,
		LineSpacing: 1.5,
		Default:     true,
	}); err != nil {
		t.Fatalf("define style: %v", err)
	}

	snap := inspect(t, doc)

	if snap.PageSize != docx.PageA4 {
		t.Fatalf("page size mismatch: %+v", snap.PageSize)
	}
	want := docx.Margins{Left: 1.5, Right: 1, Top: 1.25, Bottom: 0.75}
	if diff := cmp.Diff(want, snap.Margins); diff != "" {
		t.Fatalf("margins mismatch (-want +got):\n%s", diff)
	}

	normal, ok := snap.DefaultStyle()
	if !ok {
		t.Fatalf("default style missing")
	}
	if normal.ID != docx.StyleNormal || normal.Font != "Times New Roman" || normal.Size != 12 || normal.LineSpacing != 1.5 {
		t.Fatalf("normal style mismatch: %+v", normal)
	}
	if snap.Properties.Title != "Thesis Template" || snap.Properties.Creator != "thesisforge" {
		t.Fatalf("properties mismatch: %+v", snap.Properties)
	}
	if !snap.UpdateFields {
		t.Fatalf("expected updateFields to be enabled by default")
	}
}

func TestDocument_BodyStructure(t *testing.T) {
	doc := docx.New()
	mustNoErr(t, doc.AddHeading("Test University", 0))
	mustNoErr(t, doc.AddParagraph("line one\nline two", docx.WithAlignment(docx.AlignCenter)))
	doc.AddPageBreak()
	mustNoErr(t, doc.AddHeading("Table of Contents", 1))
	mustNoErr(t, doc.AddTOC(1, 3))
	mustNoErr(t, doc.AddHeading("Section & Context", 2))
	mustNoErr(t, doc.AddParagraph("[Figure 1]", docx.WithStyle(docx.StyleCaption)))
	doc.SetPageNumberFooter(docx.AlignCenter)

	snap := inspect(t, doc)

	wantHeadings := []docx.Heading{
		{Level: 0, Text: "Test University"},
		{Level: 1, Text: "Table of Contents"},
		{Level: 2, Text: "Section & Context"},
	}
	if diff := cmp.Diff(wantHeadings, snap.Headings()); diff != "" {
		t.Fatalf("headings mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{`TOC \o "1-3" \h \z \u`}, snap.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	body := snap.Paragraphs[1]
	if body.Text != "line one\nline two" || body.Alignment != docx.AlignCenter || body.Style != docx.StyleNormal {
		t.Fatalf("body paragraph mismatch: %+v", body)
	}
	if !snap.Paragraphs[2].PageBreak {
		t.Fatalf("expected page break paragraph, got %+v", snap.Paragraphs[2])
	}
	if last := snap.Paragraphs[len(snap.Paragraphs)-1]; last.Style != docx.StyleCaption {
		t.Fatalf("expected caption paragraph last, got %+v", last)
	}
	if !snap.Footer || snap.FooterField != "PAGE" {
		t.Fatalf("expected PAGE footer, got footer=%v field=%q", snap.Footer, snap.FooterField)
	}
}

func TestDocument_WriteIsDeterministic(t *testing.T) {
	build := func() []byte {
		doc := docx.New()
		mustNoErr(t, doc.AddHeading("Chapter 1: Introduction", 1))
		mustNoErr(t, doc.AddParagraph("Lorem ipsum"))
		mustNoErr(t, doc.DeclareFont(docx.FontDecl{Name: "Garamond", AltName: "Times New Roman", Family: "roman"}))
		data, err := doc.Bytes()
		if err != nil {
			t.Fatalf("bytes: %v", err)
		}
		return data
	}

	first, second := build(), build()
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output across builds (%d vs %d bytes)", len(first), len(second))
	}
}

func TestDocument_FontTable(t *testing.T) {
	doc := docx.New()
	mustNoErr(t, doc.DeclareFont(docx.FontDecl{Name: "Minion Pro", AltName: "Times New Roman", Family: "roman"}))
	mustNoErr(t, doc.DeclareFont(docx.FontDecl{Name: "Arial"}))

	snap := inspect(t, doc)
	want := []docx.FontDecl{
		{Name: "Minion Pro", AltName: "Times New Roman", Family: "roman"},
		{Name: "Arial", Family: "auto"},
	}
	if diff := cmp.Diff(want, snap.Fonts); diff != "" {
		t.Fatalf("fonts mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_Validation(t *testing.T) {
	doc := docx.New()

	if err := doc.SetMargins(docx.Margins{Left: -1, Right: 1, Top: 1, Bottom: 1}); err == nil {
		t.Fatalf("expected negative margin to fail")
	}
	if err := doc.SetMargins(docx.Margins{Left: 1, Right: 1, Top: 0, Bottom: 1}); err == nil {
		t.Fatalf("expected zero margin to fail")
	}
	if got := doc.Margins(); got != (docx.Margins{Left: 1, Right: 1, Top: 1, Bottom: 1}) {
		t.Fatalf("failed SetMargins must not change margins, got %+v", got)
	}
	if err := doc.AddHeading("too deep", 10); err == nil {
		t.Fatalf("expected heading level error")
	}
	if err := doc.AddParagraph("x", docx.WithStyle("Missing")); err == nil {
		t.Fatalf("expected undefined style error")
	}
	if err := doc.AddTOC(3, 1); err == nil {
		t.Fatalf("expected invalid TOC range error")
	}
	if err := doc.DefineStyle(docx.Style{ID: "", Size: 12}); err == nil {
		t.Fatalf("expected missing style id error")
	}
	if err := doc.DefineStyle(docx.Style{ID: "Bad", Size: -1}); err == nil {
		t.Fatalf("expected negative size error")
	}
}

func TestDocument_MeasurementBounds(t *testing.T) {
	tests := []struct {
		name    string
		margins docx.Margins
		style   docx.Style
	}{
		{name: "margin below one twip", margins: docx.Margins{Left: 0.0001, Right: 1, Top: 1, Bottom: 1}},
		{name: "margin overflows", margins: docx.Margins{Left: 1e300, Right: 1, Top: 1, Bottom: 1}},
		{name: "margins cover page width", margins: docx.Margins{Left: 4.25, Right: 4.25, Top: 1, Bottom: 1}},
		{name: "margins cover page height", margins: docx.Margins{Left: 1, Right: 1, Top: 6, Bottom: 5}},
		{name: "size below half point", style: docx.Style{ID: "Tiny", Size: 0.1}},
		{name: "size overflows", style: docx.Style{ID: "Huge", Size: 1e300}},
		{name: "spacing below one unit", style: docx.Style{ID: "Tight", LineSpacing: 0.001}},
		{name: "spacing overflows", style: docx.Style{ID: "Loose", LineSpacing: 500}},
		{name: "paragraph spacing overflows", style: docx.Style{ID: "Gap", SpaceAfter: 1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docx.New()
			if tt.style.ID != "" {
				if err := doc.DefineStyle(tt.style); err == nil {
					t.Fatalf("expected style %+v to be rejected", tt.style)
				}
				return
			}
			if err := doc.SetMargins(tt.margins); err == nil {
				t.Fatalf("expected margins %+v to be rejected", tt.margins)
			}
		})
	}
}

func TestDocument_SmallestStorableValues(t *testing.T) {
	doc := docx.New()
	mustNoErr(t, doc.SetMargins(docx.Margins{Left: 1.0 / 1440, Right: 1, Top: 1, Bottom: 1}))
	mustNoErr(t, doc.DefineStyle(docx.Style{ID: docx.StyleNormal, Name: "Normal", Size: 0.5, LineSpacing: 1.0 / 240, Default: true}))

	snap := inspect(t, doc)
	if snap.Margins.Left != 1.0/1440 {
		t.Fatalf("expected one-twip left margin, got %v", snap.Margins.Left)
	}
	normal, _ := snap.DefaultStyle()
	if normal.Size != 0.5 || normal.LineSpacing != 1.0/240 {
		t.Fatalf("unexpected normal style: %+v", normal)
	}
}

func TestDocument_PageSizeMustFitMargins(t *testing.T) {
	doc := docx.New(docx.WithPageSize(docx.PageLetter))
	mustNoErr(t, doc.SetMargins(docx.Margins{Left: 4, Right: 4, Top: 1, Bottom: 1}))
	if err := doc.SetPageSize(docx.PageSize{Name: "Narrow", Width: 11000, Height: 15840}); err == nil {
		t.Fatalf("expected narrow page to be rejected")
	}
	if got := doc.PageSize(); got != docx.PageLetter {
		t.Fatalf("failed SetPageSize must not change the page, got %+v", got)
	}
}

func TestDocument_DropsCharactersXMLCannotCarry(t *testing.T) {
	doc := docx.New(docx.WithProperties(docx.Properties{Title: "Uni\u0001versity"}))
	mustNoErr(t, doc.AddHeading("Uni\u0001versity", 0))
	mustNoErr(t, doc.AddParagraph("tab\tkept\u000bdropped"))

	snap := inspect(t, doc)
	if snap.Properties.Title != "University" {
		t.Fatalf("unexpected title %q", snap.Properties.Title)
	}
	if diff := cmp.Diff([]docx.Heading{{Level: 0, Text: "University"}}, snap.Headings()); diff != "" {
		t.Fatalf("headings mismatch (-want +got):\n%s", diff)
	}
	if got := snap.Paragraphs[1].Text; got != "tab\tkeptdropped" {
		t.Fatalf("unexpected paragraph text %q", got)
	}
}

func TestDocument_DefineStyleReplacesDefault(t *testing.T) {
	doc := docx.New()
	mustNoErr(t, doc.DefineStyle(docx.Style{ID: "Body", Font: "Arial", Size: 10, Default: true}))

	normal, _ := doc.Style(docx.StyleNormal)
	if normal.Default {
		t.Fatalf("expected Normal to lose default flag")
	}
	body, ok := doc.Style("Body")
	if !ok || !body.Default || body.Name != "Body" {
		t.Fatalf("unexpected Body style: %+v", body)
	}
}

func TestDocument_Save(t *testing.T) {
	doc := docx.New()
	mustNoErr(t, doc.AddParagraph("saved"))

	path := filepath.Join(t.TempDir(), "Template.docx")
	if err := doc.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := docx.InspectFile(path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(snap.Paragraphs) != 1 || snap.Paragraphs[0].Text != "saved" {
		t.Fatalf("unexpected paragraphs: %+v", snap.Paragraphs)
	}
	if !contains(snap.Parts, "[Content_Types].xml") || contains(snap.Parts, "word/footer1.xml") {
		t.Fatalf("unexpected parts: %v", snap.Parts)
	}

	if err := doc.Save(filepath.Join(t.TempDir(), "missing", "x.docx")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestInspect_RejectsNonZip(t *testing.T) {
	if _, err := docx.InspectBytes([]byte("not a zip")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPageSizeByName(t *testing.T) {
	if size, ok := docx.PageSizeByName("a4"); !ok || size != docx.PageA4 {
		t.Fatalf("a4 lookup failed: %+v %v", size, ok)
	}
	if _, ok := docx.PageSizeByName("B5"); ok {
		t.Fatalf("expected unknown page size")
	}
}

func inspect(t *testing.T, doc *docx.Document) docx.Snapshot {
	t.Helper()
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	snap, err := docx.InspectBytes(data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	return snap
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
