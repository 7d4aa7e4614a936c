package render

import (
	"errors"
	"fmt"
)

// ErrFontUnavailable reports that the requested font is not known to the
// rendering backend.
var ErrFontUnavailable = errors.New("font unavailable")

// RenderError reports a failure to render one rule with one renderer.
type RenderError struct {
	RuleID   string
	Renderer string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s for %q: %v", e.Renderer, e.RuleID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError wraps err unless it already is a RenderError.
func NewRenderError(ruleID, renderer string, err error) error {
	if err == nil {
		return nil
	}
	var existing *RenderError
	if errors.As(err, &existing) {
		return err
	}
	return &RenderError{RuleID: ruleID, Renderer: renderer, Err: err}
}
