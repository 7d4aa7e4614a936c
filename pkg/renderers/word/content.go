package word

import (
	"fmt"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/docx"
)

// Section names with dedicated handling in the preliminary pages.
const (
	SectionTitlePage = "Title Page"
	SectionContents  = "Table of Contents"
)

const (
	studentBlock   = "\n\n\n[STUDENT NAME]\n[ID NUMBER]\n\n\n[MONTH, YEAR]"
	sectionText    = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
	subsectionText = "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat."
	figureChapter  = 3
	headingColor   = "000000"
)

func defineStyles(doc *docx.Document, rule catalog.FormatRule) error {
	styles := []docx.Style{
		{
			ID:          docx.StyleNormal,
			Name:        "Normal",
			Font:        rule.Font.Name,
			Size:        rule.Font.Size,
			LineSpacing: rule.LineSpacing,
			Default:     true,
		},
		{ID: docx.StyleTitle, Name: "Title", BasedOn: docx.StyleNormal, Next: docx.StyleNormal, Size: 26, Bold: true, Color: headingColor, Alignment: docx.AlignCenter, SpaceAfter: 12},
		heading(1, 16, 24, 12),
		heading(2, 14, 18, 6),
		heading(3, 12, 12, 6),
		{ID: docx.StyleCaption, Name: "caption", BasedOn: docx.StyleNormal, Next: docx.StyleNormal, Size: 10, Italic: true},
	}
	for _, style := range styles {
		if err := doc.DefineStyle(style); err != nil {
			return err
		}
	}
	return nil
}

func heading(level int, size, before, after float64) docx.Style {
	return docx.Style{
		ID:           docx.HeadingStyleID(level),
		Name:         fmt.Sprintf("heading %d", level),
		BasedOn:      docx.StyleNormal,
		Next:         docx.StyleNormal,
		Size:         size,
		Bold:         true,
		Color:        headingColor,
		SpaceBefore:  before,
		SpaceAfter:   after,
		OutlineLevel: level,
		KeepNext:     true,
	}
}

func writeBody(doc *docx.Document, rule catalog.FormatRule) error {
	steps := []func(*docx.Document, catalog.FormatRule) error{
		writeTitlePage,
		writePreliminary,
		writeChapters,
		writeReferences,
	}
	for _, step := range steps {
		if err := step(doc, rule); err != nil {
			return err
		}
	}
	return nil
}

func writeTitlePage(doc *docx.Document, rule catalog.FormatRule) error {
	if err := doc.AddHeading(rule.Name, 0); err != nil {
		return err
	}
	if err := doc.AddParagraph(subtitle(rule.CourseName()), docx.WithAlignment(docx.AlignCenter)); err != nil {
		return err
	}
	if err := doc.AddParagraph(studentBlock, docx.WithAlignment(docx.AlignCenter)); err != nil {
		return err
	}
	doc.AddPageBreak()
	return nil
}

func writePreliminary(doc *docx.Document, rule catalog.FormatRule) error {
	for _, section := range rule.Preliminary {
		switch section {
		case SectionTitlePage:
			continue
		case SectionContents:
			if err := doc.AddHeading(section, 1); err != nil {
				return err
			}
			if err := doc.AddTOC(1, 3); err != nil {
				return err
			}
		default:
			if err := doc.AddHeading(section, 1); err != nil {
				return err
			}
			if err := doc.AddParagraph(fmt.Sprintf("[%s Content Goes Here]", section)); err != nil {
				return err
			}
		}
		doc.AddPageBreak()
	}
	return nil
}

func writeChapters(doc *docx.Document, rule catalog.FormatRule) error {
	for i, chapter := range rule.ChapterTitles() {
		n := i + 1
		paragraphs := []struct {
			text  string
			level int
		}{
			{fmt.Sprintf("Chapter %d: %s", n, chapter), 1},
			{fmt.Sprintf("This is the start of the %s. The formatting below demonstrates subheadings.", chapter), -1},
			{fmt.Sprintf("Section %d.1: Context", n), 2},
			{sectionText, -1},
			{fmt.Sprintf("Subsection %d.1.1: Detail", n), 3},
			{subsectionText, -1},
		}
		for _, p := range paragraphs {
			var err error
			if p.level < 0 {
				err = doc.AddParagraph(p.text)
			} else {
				err = doc.AddHeading(p.text, p.level)
			}
			if err != nil {
				return err
			}
		}
		if n == figureChapter {
			if err := doc.AddParagraph("[Figure 1: Conceptual Framework]", docx.WithStyle(docx.StyleCaption)); err != nil {
				return err
			}
		}
		doc.AddPageBreak()
	}
	return nil
}

func writeReferences(doc *docx.Document, rule catalog.FormatRule) error {
	if err := doc.AddHeading("References", 1); err != nil {
		return err
	}
	return doc.AddParagraph(fmt.Sprintf("[%s Style References List]", rule.ReferenceStyle))
}
