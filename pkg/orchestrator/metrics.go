package orchestrator

import "time"

// Metrics receives run measurements. Implementations must be safe for
// concurrent use.
type Metrics interface {
	CatalogLoaded(rules int)
	ArtifactRendered(renderer string, elapsed time.Duration)
	RenderFailed(renderer string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) CatalogLoaded(int)                      {}
func (nopMetrics) ArtifactRendered(string, time.Duration) {}
func (nopMetrics) RenderFailed(string, time.Duration)     {}
