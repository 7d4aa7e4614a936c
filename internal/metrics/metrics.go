// Package metrics records generation runs in a Prometheus registry owned by
// the run, and can dump it in text exposition format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "thesisforge"

// Recorder collects run metrics. It satisfies orchestrator.Metrics.
type Recorder struct {
	registry *prometheus.Registry
	rendered *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rules    prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_rendered_total",
			Help:      "Artifacts rendered and written, by format.",
		}, []string{"format"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Rules that failed to render, by format.",
		}, []string{"format"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering and writing one artifact.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"format"}),
		rules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_rules",
			Help:      "Rules in the loaded catalog.",
		}),
	}
	r.registry.MustRegister(r.rendered, r.failures, r.duration, r.rules)
	return r
}

// CatalogLoaded records the catalog size.
func (r *Recorder) CatalogLoaded(rules int) {
	r.rules.Set(float64(rules))
}

// ArtifactRendered counts a written artifact.
func (r *Recorder) ArtifactRendered(format string, elapsed time.Duration) {
	r.rendered.WithLabelValues(format).Inc()
	r.duration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// RenderFailed counts a failed render.
func (r *Recorder) RenderFailed(format string, elapsed time.Duration) {
	r.failures.WithLabelValues(format).Inc()
	r.duration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
