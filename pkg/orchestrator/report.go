package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-thesisforge/pkg/render"
)

// Output records one artifact written during a run.
type Output struct {
	RuleID   string
	Folder   string
	Renderer string
	Path     string
	Size     int
	Warnings []render.Warning
}

// Failure records a rule that could not be rendered.
type Failure struct {
	RuleID   string
	Renderer string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.RuleID, f.Renderer, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarises a run.
type Report struct {
	Rules     int
	Outputs   []Output
	Failures  []Failure
	IndexPath string
	Duration  time.Duration
}

// Failed reports whether any rule failed.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err joins every failure, or returns nil when the run was clean.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// Warnings collects warnings from every output.
func (r Report) Warnings() []Output {
	var out []Output
	for _, o := range r.Outputs {
		if len(o.Warnings) > 0 {
			out = append(out, o)
		}
	}
	return out
}

// Rendered lists rule ids that produced every requested artifact, in catalog
// order.
func (r Report) Rendered() []string {
	failed := make(map[string]struct{}, len(r.Failures))
	for _, f := range r.Failures {
		failed[f.RuleID] = struct{}{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, o := range r.Outputs {
		if o.RuleID == "" {
			continue
		}
		if _, bad := failed[o.RuleID]; bad {
			continue
		}
		if _, dup := seen[o.RuleID]; dup {
			continue
		}
		seen[o.RuleID] = struct{}{}
		out = append(out, o.RuleID)
	}
	return out
}
