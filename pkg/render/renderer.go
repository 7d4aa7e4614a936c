package render

import (
	"context"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
)

// Renderer turns one validated FormatRule into one artifact (a .docx template,
// an HTML landing page, ...). Implementations must not keep state between
// calls; every Render produces a fresh artifact.
type Renderer interface {
	Name() string
	ContentType() string
	FileName() string
	Render(ctx context.Context, rule catalog.FormatRule, options RenderOptions) (Artifact, error)
}

// IndexEntry describes one institution listed on the output root index.
type IndexEntry struct {
	ID     string
	Folder string
	Name   string
	Course string
	Year   string
}

// IndexRenderer is implemented by renderers that also produce a page at the
// output root linking every rendered institution.
type IndexRenderer interface {
	RenderIndex(ctx context.Context, entries []IndexEntry) (Artifact, error)
}
