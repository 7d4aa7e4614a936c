package render

// RenderOptions carries per-run switches shared by every renderer.
type RenderOptions struct {
	// StrictFonts turns an unavailable font into a RenderError instead of a
	// substitution warning.
	StrictFonts bool
	// Generator is recorded in document metadata and page footers.
	Generator string
}

// DefaultGenerator labels artifacts when RenderOptions.Generator is empty.
const DefaultGenerator = "thesisforge"

// GeneratorName returns the configured generator label or the default.
func (o RenderOptions) GeneratorName() string {
	if o.Generator != "" {
		return o.Generator
	}
	return DefaultGenerator
}
