// Package metrics holds the Prometheus collectors updated by one
// elaboration run. A nil *Metrics disables collection.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flowgrid"

// Outcome labels for the instances counter.
const (
	OutcomeCompleted = "completed"
	OutcomeDropped   = "dropped"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	instances    *prometheus.CounterVec // By outcome (completed/dropped)
	branches     prometheus.Counter
	diagnostics  *prometheus.CounterVec // By kind
	components   prometheus.Counter
	passDuration prometheus.Histogram
}

// New creates the collectors and registers them with a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		instances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "instances_total",
			Help:      "End-to-end flow instances by outcome",
		}, []string{"outcome"}),

		branches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "branches_total",
			Help:      "Flow instances cloned at branch points",
		}),

		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted while instantiating flows",
		}, []string{"kind"}),

		components: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "components_visited_total",
			Help:      "Component instances visited by elaboration passes",
		}),

		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "pass_duration_seconds",
			Help:      "Elaboration pass duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		}),
	}

	for _, c := range []prometheus.Collector{m.instances, m.branches, m.diagnostics, m.components, m.passDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordInstance counts one finished or dropped flow instance.
func (m *Metrics) RecordInstance(outcome string) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(outcome).Inc()
}

// RecordBranches counts n clones created at one branch point.
func (m *Metrics) RecordBranches(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.branches.Add(float64(n))
}

// RecordDiagnostic counts one diagnostic of the given kind.
func (m *Metrics) RecordDiagnostic(kind string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(kind).Inc()
}

// RecordComponent counts one visited component instance.
func (m *Metrics) RecordComponent() {
	if m == nil {
		return
	}
	m.components.Inc()
}

// ObservePass records the duration of one elaboration pass.
func (m *Metrics) ObservePass(d time.Duration) {
	if m == nil {
		return
	}
	m.passDuration.Observe(d.Seconds())
}

// WriteFile writes every collector in the text exposition format, for
// pickup by a node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
