// Package docx builds WordprocessingML (.docx) documents from a small set of
// formatting primitives: named paragraph styles, page size and margins,
// headings, plain paragraphs, page breaks, a table-of-contents field and a
// page-number footer.
//
// A Document is an in-memory value. Nothing touches the filesystem until
// WriteTo or Save is called, at which point every package part is rendered
// from the embedded templates and zipped with a fixed timestamp, so the same
// Document always serializes to the same bytes.
//
// Inspect reads a produced file back into a Snapshot (page layout, styles and
// paragraphs), which is what the renderer tests use to check that a rule's
// margins and typography made it into the file.
package docx
