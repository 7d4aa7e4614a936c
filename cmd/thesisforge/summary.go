package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
	"github.com/goliatone/go-thesisforge/pkg/orchestrator"
)

func writeSummary(w io.Writer, report orchestrator.Report, runID string) {
	out := termenv.NewOutput(w)
	ok := out.String("ok").Foreground(out.Color("2"))
	warn := out.String("warn").Foreground(out.Color("3"))
	fail := out.String("fail").Foreground(out.Color("1")).Bold()

	for _, o := range report.Outputs {
		if o.RuleID == "" {
			continue
		}
		fmt.Fprintf(w, "%s  %-20s %s\n", ok, o.RuleID, o.Path)
		for _, warning := range o.Warnings {
			fmt.Fprintf(w, "%s  %-20s %s\n", warn, o.RuleID, warning.Message)
		}
	}
	for _, f := range report.Failures {
		id := f.RuleID
		if id == "" {
			id = f.Renderer
		}
		fmt.Fprintf(w, "%s  %-20s %v\n", fail, id, f.Err)
	}
	if report.IndexPath != "" {
		fmt.Fprintf(w, "index %s\n", report.IndexPath)
	}

	rendered := len(report.Rendered())
	failed := report.Rules - rendered
	if failed < 0 {
		failed = 0
	}
	fmt.Fprintf(w, "%d of %d institutions generated, %d failed (run %s, %s)\n",
		rendered, report.Rules, failed, runID, report.Duration.Round(1e6))
}

// printCatalogError lists every invalid record, one issue per line.
func printCatalogError(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	label := out.String("error").Foreground(out.Color("1")).Bold()

	var dup *catalog.DuplicateIdentifierError
	if errors.As(err, &dup) {
		fmt.Fprintf(w, "%s: %v\n", label, dup)
		return
	}

	var reported bool
	for _, e := range flatten(err) {
		var invalid *catalog.ValidationError
		if !errors.As(e, &invalid) {
			continue
		}
		reported = true
		if invalid.Index < 0 {
			fmt.Fprintf(w, "%s: catalog document\n", label)
		} else {
			fmt.Fprintf(w, "%s: record %d (%s)\n", label, invalid.Index, invalid.ID)
		}
		for _, issue := range invalid.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	if !reported {
		fmt.Fprintf(w, "%s: %v\n", label, err)
	}
}

// flatten expands joined errors, following single wraps.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(next) {
		if _, ok := next.(interface{ Unwrap() []error }); ok {
			return flatten(next)
		}
	}
	return []error{err}
}
