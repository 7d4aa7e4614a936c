// Package site renders the static landing pages published next to the
// generated documents: one page per institution listing its formatting rules
// and a searchable index at the output root.
package site
