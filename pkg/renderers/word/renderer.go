package word

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/docx"
	"github.com/goliatone/go-thesisforge/pkg/render"
)

// Name is the registry key of the renderer.
const Name = "docx"

// FileName is the artifact written into each institution folder.
const FileName = "Template.docx"

type Option func(*Renderer)

// WithFonts replaces the known-font table.
func WithFonts(fonts FontTable) Option {
	return func(r *Renderer) {
		if fonts != nil {
			r.fonts = fonts
		}
	}
}

// WithLogger sets the logger used for substitution notices.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces a thesis template document for one format rule.
type Renderer struct {
	fonts  FontTable
	logger *slog.Logger
}

// New constructs the renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		fonts:  DefaultFonts(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return docx.ContentType
}

func (r *Renderer) FileName() string {
	return FileName
}

// Render builds and serialises the document. Nothing is retained between calls.
func (r *Renderer) Render(ctx context.Context, rule catalog.FormatRule, options render.RenderOptions) (render.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return render.Artifact{}, render.NewRenderError(rule.ID, Name, err)
	}

	doc, warnings, err := r.BuildDocument(rule, options)
	if err != nil {
		return render.Artifact{}, render.NewRenderError(rule.ID, Name, err)
	}
	data, err := doc.Bytes()
	if err != nil {
		return render.Artifact{}, render.NewRenderError(rule.ID, Name, fmt.Errorf("serialise document: %w", err))
	}

	return render.Artifact{
		RuleID:      rule.ID,
		Renderer:    Name,
		FileName:    FileName,
		ContentType: docx.ContentType,
		Data:        data,
		Warnings:    warnings,
	}, nil
}

// BuildDocument assembles the in-memory document for rule.
func (r *Renderer) BuildDocument(rule catalog.FormatRule, options render.RenderOptions) (*docx.Document, []render.Warning, error) {
	// Normal's rFonts and the font table entry must name the same family.
	rule.Font.Name = strings.TrimSpace(rule.Font.Name)

	page, ok := docx.PageSizeByName(rule.Paper())
	if !ok {
		return nil, nil, fmt.Errorf("unsupported page size %q", rule.Paper())
	}

	course := rule.CourseName()
	doc := docx.New(
		docx.WithPageSize(page),
		docx.WithProperties(docx.Properties{
			Title:       fmt.Sprintf("%s %s", rule.Name, subtitle(course)),
			Subject:     course,
			Creator:     options.GeneratorName(),
			Keywords:    rule.ReferenceStyle,
			Description: fmt.Sprintf("Formatting template for %s", rule.Name),
		}),
	)

	if err := doc.SetMargins(docx.Margins{
		Left:   rule.Margins.Left,
		Right:  rule.Margins.Right,
		Top:    rule.Margins.Top,
		Bottom: rule.Margins.Bottom,
	}); err != nil {
		return nil, nil, err
	}

	warnings, err := r.applyFont(doc, rule, options)
	if err != nil {
		return nil, nil, err
	}
	if err := defineStyles(doc, rule); err != nil {
		return nil, nil, err
	}
	if err := writeBody(doc, rule); err != nil {
		return nil, nil, err
	}
	doc.SetPageNumberFooter(docx.AlignCenter)
	return doc, warnings, nil
}

func (r *Renderer) applyFont(doc *docx.Document, rule catalog.FormatRule, options render.RenderOptions) ([]render.Warning, error) {
	font, known := r.fonts.resolveFont(rule.Font.Name)
	if !known && options.StrictFonts {
		return nil, fmt.Errorf("font %q: %w", font.Name, render.ErrFontUnavailable)
	}
	if err := doc.DeclareFont(font); err != nil {
		return nil, err
	}
	if known {
		return nil, nil
	}

	r.logger.Warn("font substituted",
		"rule", rule.ID,
		"font", font.Name,
		"fallback", font.AltName,
	)
	return []render.Warning{{
		Code:    render.WarningFontSubstituted,
		Message: fmt.Sprintf("font %q is not in the known-font table; viewers fall back to %q", font.Name, font.AltName),
	}}, nil
}

func subtitle(course string) string {
	if strings.HasSuffix(strings.ToLower(course), "thesis") {
		return course + " Template"
	}
	return course + " Thesis Template"
}
