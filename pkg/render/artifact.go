package render

import (
	"bytes"
	"io"
)

// Warning codes attached to artifacts.
const (
	WarningFontSubstituted = "font-substituted"
)

// Warning flags a best-effort decision taken while rendering.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Artifact is the write-once output of a single render.
type Artifact struct {
	RuleID      string
	Renderer    string
	FileName    string
	ContentType string
	Data        []byte
	Warnings    []Warning
}

// Size returns the payload length in bytes.
func (a Artifact) Size() int {
	return len(a.Data)
}

// Reader returns a reader over the payload.
func (a Artifact) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}
