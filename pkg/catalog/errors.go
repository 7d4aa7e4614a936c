package catalog

import (
	"fmt"
	"strings"
)

// Issue describes one problem with a catalog record. Field uses the dotted
// catalog key (margins.left, font.name) and is empty for record-level issues.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// ValidationError reports a malformed record: a missing required key, a value
// of the wrong type, or a measurement Word cannot store. Index is -1 when the
// document itself has the wrong shape.
type ValidationError struct {
	Index  int
	ID     string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Index < 0 {
		b.WriteString("catalog: document")
	} else {
		fmt.Fprintf(&b, "catalog: record %d", e.Index)
	}
	if e.ID != "" {
		fmt.Fprintf(&b, " (id %q)", e.ID)
	}
	b.WriteString(" is invalid")
	for i, issue := range e.Issues {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(issue.String())
	}
	return b.String()
}

// HasIssue reports whether the error carries an issue for field.
func (e *ValidationError) HasIssue(field string) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// DuplicateIdentifierError reports two records competing for the same
// identifier. When the identifiers differ but sanitize to the same output
// folder, OtherID holds the second identifier and Folder the shared name.
type DuplicateIdentifierError struct {
	ID      string
	OtherID string
	Folder  string
	First   int
	Second  int
}

func (e *DuplicateIdentifierError) Error() string {
	if e.OtherID != "" && e.OtherID != e.ID {
		return fmt.Sprintf("catalog: identifiers %q and %q both map to output folder %q (records %d and %d)",
			e.ID, e.OtherID, e.Folder, e.First, e.Second)
	}
	return fmt.Sprintf("catalog: duplicate identifier %q (records %d and %d)", e.ID, e.First, e.Second)
}
