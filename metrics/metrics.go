// Package metrics exposes Prometheus instrumentation for the extraction
// engine and the seeding pipeline.
//
// All record methods are safe to call on a nil *Metrics, so components can
// take an optional collector without guarding every call site.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brandseed"

// Metrics holds every collector registered by the service.
type Metrics struct {
	extractionsTotal   *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	probesTotal        *prometheus.CounterVec
	svgTotal           *prometheus.CounterVec
	seedItemsTotal     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry creates the collectors and registers them with registerer.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{gatherer: gatherer}

	m.extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of single-URL extractions by outcome",
		},
		[]string{"outcome"},
	)

	m.extractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time taken to extract brand metadata from one URL",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	m.probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Total number of conventional asset path probes by result",
		},
		[]string{"result"},
	)

	m.svgTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "svg_classifications_total",
			Help:      "Total number of SVG logo candidates classified by verdict",
		},
		[]string{"verdict"},
	)

	m.seedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_items_total",
			Help:      "Total number of seeded URLs by status",
		},
		[]string{"status"},
	)

	registerer.MustRegister(
		m.extractionsTotal,
		m.extractionDuration,
		m.probesTotal,
		m.svgTotal,
		m.seedItemsTotal,
	)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordExtraction records one extraction outcome ("success" or an error kind) and its duration.
func (m *Metrics) RecordExtraction(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(outcome).Inc()
	m.extractionDuration.Observe(duration.Seconds())
}

// RecordProbe records whether an asset probe found something.
func (m *Metrics) RecordProbe(found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.probesTotal.WithLabelValues(result).Inc()
}

// RecordSVGVerdict records an SVG classification verdict.
func (m *Metrics) RecordSVGVerdict(textBased bool) {
	if m == nil {
		return
	}
	verdict := "graphic"
	if textBased {
		verdict = "text"
	}
	m.svgTotal.WithLabelValues(verdict).Inc()
}

// RecordSeedItem records the status of one seeded URL.
func (m *Metrics) RecordSeedItem(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "created"
	}
	m.seedItemsTotal.WithLabelValues(status).Inc()
}
