package thesisforge

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/orchestrator"
	"github.com/goliatone/go-thesisforge/pkg/render"
	"github.com/goliatone/go-thesisforge/pkg/renderers/site"
)

// FormatRule aliases catalog.FormatRule for callers building catalogs in code.
type FormatRule = catalog.FormatRule

// RenderOptions describes per-run switches shared by every renderer.
type RenderOptions = render.RenderOptions

// Report summarises a generation run.
type Report = orchestrator.Report

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a catalog loader.
func NewLoader(options ...catalog.Option) *catalog.Loader {
	return catalog.NewLoader(options...)
}

// Generate loads the catalog at catalogPath and writes every artifact under
// outputDir. It is the simplest entry point for callers that just want the
// templates on disk. Per-rule failures are reported through Report.Err.
func Generate(ctx context.Context, catalogPath, outputDir string, options ...orchestrator.Option) (Report, error) {
	opts := append([]orchestrator.Option{orchestrator.WithSink(orchestrator.NewDirSink(outputDir))}, options...)
	return orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
		Source: catalog.SourceFromFile(catalogPath),
	})
}

// GenerateRules renders rules that are already in memory.
func GenerateRules(ctx context.Context, rules []FormatRule, outputDir string, options ...orchestrator.Option) (Report, error) {
	cat, err := catalog.New("memory", rules)
	if err != nil {
		return Report{}, err
	}
	opts := append([]orchestrator.Option{orchestrator.WithSink(orchestrator.NewDirSink(outputDir))}, options...)
	return orchestrator.New(opts...).Generate(ctx, orchestrator.Request{Catalog: &cat})
}

// EmbeddedTemplates exposes the built-in landing page templates so callers
// can copy and extend them for site.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return site.TemplatesFS()
}
