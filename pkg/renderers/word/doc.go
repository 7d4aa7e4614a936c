// Package word renders a format rule into a thesis template document: title
// page, preliminary sections, placeholder chapters and a references section,
// laid out with the rule's margins, body font and line spacing.
package word
