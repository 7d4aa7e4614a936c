package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/render"
	"github.com/goliatone/go-thesisforge/pkg/renderers/site"
	"github.com/goliatone/go-thesisforge/pkg/renderers/word"
)

// DefaultFormats are rendered when a request names none.
var DefaultFormats = []string{word.Name, site.Name}

// DefaultOutputDir is the sink root used when no sink is configured.
const DefaultOutputDir = "Output"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom catalog loader.
func WithLoader(loader *catalog.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithSink sets where artifacts are written.
func WithSink(sink Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records run measurements.
func WithMetrics(metrics Metrics) Option {
	return func(o *Orchestrator) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithSelector lets a caller narrow the filtered rules, for example through an
// interactive prompt.
func WithSelector(selector Selector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithIndex toggles the output root index page.
func WithIndex(enabled bool) Option {
	return func(o *Orchestrator) {
		o.index = enabled
	}
}

// Selector picks rule ids out of the candidates. An empty result cancels the
// run.
type Selector interface {
	Select(ctx context.Context, rules []catalog.FormatRule) ([]string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, rules []catalog.FormatRule) ([]string, error)

func (f SelectorFunc) Select(ctx context.Context, rules []catalog.FormatRule) ([]string, error) {
	return f(ctx, rules)
}

// ErrNothingSelected is returned when filters or the selector leave no rules.
var ErrNothingSelected = errors.New("orchestrator: no rules selected")

// Orchestrator coordinates catalog loading, rendering and artifact output.
// Rules are processed sequentially; a failing rule does not stop the run.
type Orchestrator struct {
	loader        *catalog.Loader
	registry      *render.Registry
	sink          Sink
	logger        *slog.Logger
	metrics       Metrics
	selector      Selector
	index         bool
	initialiseErr error
}

// New constructs an Orchestrator. Missing dependencies get the built-in
// implementations: the docx and html renderers and a DirSink on Output/.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{index: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation run.
type Request struct {
	// Source locates the catalog. Ignored when Catalog is set.
	Source catalog.Source

	// Catalog bypasses the loader for callers holding a loaded catalog.
	Catalog *catalog.Catalog

	// Formats names the renderers to run, in order. Defaults to DefaultFormats.
	Formats []string

	// Only restricts the run to ids matching any of the glob patterns.
	Only []string

	RenderOptions render.RenderOptions
}

// Generate runs the batch. A catalog or configuration problem is returned as
// an error before anything is rendered. Per-rule failures are collected in the
// report; callers check Report.Failed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Report, error) {
	started := time.Now()
	if ctx == nil {
		return Report{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	renderers, err := o.resolveRenderers(req.Formats)
	if err != nil {
		return Report{}, err
	}

	cat, err := o.resolveCatalog(ctx, req)
	if err != nil {
		return Report{}, err
	}
	o.metrics.CatalogLoaded(cat.Len())

	rules, err := o.selectRules(ctx, cat, req.Only)
	if err != nil {
		return Report{}, err
	}

	report := Report{Rules: len(rules)}

	o.logger.Info("generation started",
		"catalog", cat.Source(),
		"rules", len(rules),
		"formats", rendererNames(renderers),
	)

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(started)
			return report, fmt.Errorf("orchestrator: run interrupted: %w", err)
		}
		o.renderRule(ctx, rule, renderers, req.RenderOptions, &report)
	}

	if o.index {
		if err := o.writeIndex(ctx, rules, renderers, &report); err != nil {
			report.Failures = append(report.Failures, Failure{Renderer: "index", Err: err})
			o.logger.Error("index failed", "error", err)
		}
	}

	report.Duration = time.Since(started)
	o.logger.Info("generation finished",
		"rendered", len(report.Rendered()),
		"failed", len(report.Failures),
		"duration", report.Duration,
	)
	return report, nil
}

// renderRule renders every format for rule before writing any of them, so a
// render failure leaves nothing from this run in the rule's folder.
func (o *Orchestrator) renderRule(ctx context.Context, rule catalog.FormatRule, renderers []render.Renderer, options render.RenderOptions, report *Report) {
	folder := rule.Folder()
	fail := func(renderer string, elapsed time.Duration, err error) {
		err = render.NewRenderError(rule.ID, renderer, err)
		o.metrics.RenderFailed(renderer, elapsed)
		report.Failures = append(report.Failures, Failure{RuleID: rule.ID, Renderer: renderer, Err: err})
		o.logger.Error("render failed", "rule", rule.ID, "renderer", renderer, "error", err)
	}

	type staged struct {
		renderer string
		artifact render.Artifact
		elapsed  time.Duration
	}
	pending := make([]staged, 0, len(renderers))
	for _, renderer := range renderers {
		start := time.Now()
		artifact, err := renderer.Render(ctx, rule, options)
		if err != nil {
			fail(renderer.Name(), time.Since(start), err)
			return
		}
		pending = append(pending, staged{renderer: renderer.Name(), artifact: artifact, elapsed: time.Since(start)})
	}

	for _, item := range pending {
		start := time.Now()
		output, err := o.writeArtifact(ctx, rule, folder, item.renderer, item.artifact)
		if err != nil {
			fail(item.renderer, item.elapsed+time.Since(start), err)
			return
		}

		o.metrics.ArtifactRendered(output.Renderer, item.elapsed+time.Since(start))
		report.Outputs = append(report.Outputs, output)
		for _, w := range output.Warnings {
			o.logger.Warn("render warning", "rule", rule.ID, "renderer", output.Renderer, "code", w.Code, "message", w.Message)
		}
		o.logger.Debug("artifact written", "rule", rule.ID, "renderer", output.Renderer, "path", output.Path, "bytes", output.Size)
	}
}

func (o *Orchestrator) writeArtifact(ctx context.Context, rule catalog.FormatRule, folder, renderer string, artifact render.Artifact) (Output, error) {
	written, err := o.sink.Write(ctx, folder, artifact)
	if err != nil {
		return Output{}, err
	}
	return Output{
		RuleID:   rule.ID,
		Folder:   folder,
		Renderer: renderer,
		Path:     written,
		Size:     artifact.Size(),
		Warnings: artifact.Warnings,
	}, nil
}

func (o *Orchestrator) writeIndex(ctx context.Context, rules []catalog.FormatRule, renderers []render.Renderer, report *Report) error {
	var indexer render.IndexRenderer
	for _, renderer := range renderers {
		if candidate, ok := renderer.(render.IndexRenderer); ok {
			indexer = candidate
			break
		}
	}
	if indexer == nil {
		return nil
	}

	rendered := make(map[string]struct{})
	for _, id := range report.Rendered() {
		rendered[id] = struct{}{}
	}
	entries := make([]render.IndexEntry, 0, len(rendered))
	for _, rule := range rules {
		if _, ok := rendered[rule.ID]; !ok {
			continue
		}
		entries = append(entries, render.IndexEntry{
			ID:     rule.ID,
			Folder: rule.Folder(),
			Name:   rule.Name,
			Course: rule.CourseName(),
			Year:   rule.Year,
		})
	}

	artifact, err := indexer.RenderIndex(ctx, entries)
	if err != nil {
		return err
	}
	written, err := o.sink.Write(ctx, "", artifact)
	if err != nil {
		return err
	}
	report.IndexPath = written
	return nil
}

func (o *Orchestrator) resolveCatalog(ctx context.Context, req Request) (catalog.Catalog, error) {
	if req.Catalog != nil {
		return *req.Catalog, nil
	}
	if req.Source == nil {
		return catalog.Catalog{}, errors.New("orchestrator: catalog source is required")
	}
	cat, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("orchestrator: load catalog: %w", err)
	}
	return cat, nil
}

func (o *Orchestrator) selectRules(ctx context.Context, cat catalog.Catalog, only []string) ([]catalog.FormatRule, error) {
	filtered, err := cat.Filter(only...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: filter catalog: %w", err)
	}
	if filtered.Len() == 0 {
		return nil, ErrNothingSelected
	}
	if o.selector == nil {
		return filtered.Rules(), nil
	}

	ids, err := o.selector.Select(ctx, filtered.Rules())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select rules: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	selected, err := filtered.Select(ids...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select rules: %w", err)
	}
	return selected.Rules(), nil
}

func (o *Orchestrator) resolveRenderers(formats []string) ([]render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	renderers, err := o.registry.Resolve(formats...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderers, nil
}

// Registry returns the renderer registry in use.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.loader == nil {
		o.loader = catalog.NewLoader(catalog.WithLogger(o.logger))
	}
	if o.metrics == nil {
		o.metrics = nopMetrics{}
	}
	if o.sink == nil {
		o.sink = NewDirSink(DefaultOutputDir)
	}
	if o.registry == nil {
		registry, err := DefaultRegistry(o.logger)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.registry = registry
	}
}

// DefaultRegistry registers the built-in docx and html renderers.
func DefaultRegistry(logger *slog.Logger) (*render.Registry, error) {
	registry := render.NewRegistry()
	if err := registry.Register(word.New(word.WithLogger(logger))); err != nil {
		return nil, fmt.Errorf("orchestrator: register docx renderer: %w", err)
	}
	pages, err := site.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default html renderer: %w", err)
	}
	if err := registry.Register(pages); err != nil {
		return nil, fmt.Errorf("orchestrator: register html renderer: %w", err)
	}
	return registry, nil
}

func rendererNames(renderers []render.Renderer) []string {
	out := make([]string, 0, len(renderers))
	for _, r := range renderers {
		out = append(out, r.Name())
	}
	return out
}
