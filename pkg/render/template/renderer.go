package template

import (
	"io"
)

// TemplateRenderer is the seam between document builders and the template
// engine. Builders hand it a template name plus plain data (maps, slices,
// scalars) and receive the rendered text.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
