// Package template defines the template seam used by the document builders
// and ships a pongo2-backed implementation in the gotemplate subpackage. The
// DOCX parts and HTML pages are all produced through this interface so
// builders never depend on the engine directly.
package template
