// Package metrics counts clinic operations with Prometheus collectors. hms is
// a short-lived process, so the registry is exported to a node_exporter
// textfile on exit rather than served over HTTP.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hms"

// Recorder owns a private registry and the hms collectors.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	entities   *prometheus.GaugeVec
	skipped    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Clinic operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Clinic operation duration, including write-through saves.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"operation"},
		),
		entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "entities",
				Help:      "Entities currently held per registry.",
			},
			[]string{"entity"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_skipped_records_total",
				Help:      "Stored records skipped during load.",
			},
			[]string{"entity"},
		),
	}
	r.registry.MustRegister(r.operations, r.duration, r.entities, r.skipped)
	return r
}

// ObserveOperation counts one operation and records how long it took.
// outcome is "ok" or an error kind name.
func (r *Recorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetEntityCount sets the gauge for one registry.
func (r *Recorder) SetEntityCount(entity string, n int) {
	r.entities.WithLabelValues(entity).Set(float64(n))
}

// AddSkipped counts records skipped while loading.
func (r *Recorder) AddSkipped(entity string, n int) {
	if n <= 0 {
		return
	}
	r.skipped.WithLabelValues(entity).Add(float64(n))
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in text exposition format to path,
// creating the parent directory. The write goes through a temp file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
