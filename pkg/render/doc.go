// Package render defines the contract between the batch orchestrator and the
// per-format renderers: the Renderer interface, the Artifact value each render
// returns, a name-keyed Registry and the RenderError taxonomy used to report
// per-record failures.
package render
