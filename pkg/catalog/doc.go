// Package catalog loads and validates the university formatting catalog.
//
// A catalog is an ordered list of FormatRule records supplied as JSON (the
// historical data.json layout) or YAML. Records are decoded into generic maps
// first and then mapped onto FormatRule so missing keys can be reported by
// name instead of silently defaulting to zero values. Loading either yields a
// fully validated Catalog or fails before any caller gets to render: a
// ValidationError for malformed records and a DuplicateIdentifierError when two
// records would claim the same identifier or output folder.
package catalog
