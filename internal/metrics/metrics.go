// Package metrics exposes Prometheus collectors for pipeline runs
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gobioact"

// Metrics holds the pipeline collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal      *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	RecordsDropped *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec
	TestsTotal     *prometheus.CounterVec
}

// New registers the pipeline collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by final status.",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Stage execution time.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records excluded by a stage, by reason.",
		}, []string{"stage", "reason"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_cache_hits_total",
			Help:      "Stage results served from the content-addressed cache.",
		}, []string{"stage"}),
		TestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hypothesis_tests_total",
			Help:      "Descriptor tests by outcome.",
		}, []string{"descriptor", "outcome"}),
	}

	m.registry.MustRegister(m.RunsTotal, m.StageDuration, m.RecordsDropped, m.CacheHits, m.TestsTotal)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current values for the node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
