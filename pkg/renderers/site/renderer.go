package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/render"
	rendertemplate "github.com/goliatone/go-thesisforge/pkg/render/template"
	"github.com/goliatone/go-thesisforge/pkg/render/template/gotemplate"
)

// Name is the registry key of the renderer.
const Name = "html"

const (
	// FileName is written into each institution folder and the output root.
	FileName    = "index.html"
	contentType = "text/html; charset=utf-8"

	// DefaultDownload is the document the landing page links to.
	DefaultDownload = "Template.docx"
	// DefaultTitle heads the global index page.
	DefaultTitle = "Thesis Template Factory"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	download         string
	title            string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if dir == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitizer applied to rule notes.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithDownload sets the file name the landing page links to.
func WithDownload(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.download = name
		}
	}
}

// WithTitle sets the heading of the global index.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
	}
}

// Renderer produces the HTML landing pages.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	download  string
	title     string
}

// New constructs the site renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		download:   DefaultDownload,
		title:      DefaultTitle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithName(Name),
		)
		if err != nil {
			return nil, fmt.Errorf("site renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		policy:    cfg.policy,
		download:  cfg.download,
		title:     cfg.title,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return contentType
}

func (r *Renderer) FileName() string {
	return FileName
}

// Render builds the landing page of one institution.
func (r *Renderer) Render(ctx context.Context, rule catalog.FormatRule, options render.RenderOptions) (render.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return render.Artifact{}, render.NewRenderError(rule.ID, Name, err)
	}

	result, err := r.templates.RenderTemplate("page", map[string]any{
		"rule": map[string]any{
			"id":     rule.ID,
			"name":   rule.Name,
			"course": rule.CourseName(),
			"year":   strings.TrimSpace(rule.Year),
		},
		"specs":      specRows(rule),
		"notes":      strings.TrimSpace(r.policy.Sanitize(rule.Notes)),
		"download":   r.download,
		"generator":  options.GeneratorName(),
		"stylesheet": stylesheet,
	})
	if err != nil {
		return render.Artifact{}, render.NewRenderError(rule.ID, Name, fmt.Errorf("render page: %w", err))
	}
	return r.artifact(rule.ID, result), nil
}

// RenderIndex builds the searchable page listing every entry.
func (r *Renderer) RenderIndex(ctx context.Context, entries []render.IndexEntry) (render.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return render.Artifact{}, render.NewRenderError("", Name, err)
	}

	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		items = append(items, map[string]any{
			"link":   path.Join(entry.Folder, FileName),
			"name":   entry.Name,
			"course": entry.Course,
		})
	}
	result, err := r.templates.RenderTemplate("index", map[string]any{
		"title":      r.title,
		"entries":    items,
		"generator":  render.DefaultGenerator,
		"stylesheet": stylesheet,
	})
	if err != nil {
		return render.Artifact{}, render.NewRenderError("", Name, fmt.Errorf("render index: %w", err))
	}
	return r.artifact("", result), nil
}

func (r *Renderer) artifact(ruleID, body string) render.Artifact {
	return render.Artifact{
		RuleID:      ruleID,
		Renderer:    Name,
		FileName:    FileName,
		ContentType: contentType,
		Data:        []byte(body),
	}
}

func specRows(rule catalog.FormatRule) []map[string]any {
	m := rule.Margins
	rows := []struct{ label, value string }{
		{"Margins", fmt.Sprintf(`Top: %s", Bottom: %s", Left: %s", Right: %s"`, number(m.Top), number(m.Bottom), number(m.Left), number(m.Right))},
		{"Font", fmt.Sprintf("%s (%spt)", rule.Font.Name, number(rule.Font.Size))},
		{"Line Spacing", number(rule.LineSpacing)},
		{"Reference Style", rule.ReferenceStyle},
		{"Page Size", rule.Paper()},
	}
	if len(rule.Preliminary) > 0 {
		rows = append(rows, struct{ label, value string }{"Preliminary Pages", strings.Join(rule.Preliminary, ", ")})
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{"label": row.label, "value": row.value})
	}
	return out
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
