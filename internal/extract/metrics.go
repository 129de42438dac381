// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/findoc/pkg/types"
)

// Document outcome labels for findoc_documents_total.
const (
	StatusExtracted = "extracted"
	StatusEmpty     = "empty"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Metrics holds Prometheus collectors for extraction runs. Each Metrics
// owns its registry so tests and repeated runs do not collide.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsTotal       *prometheus.CounterVec
	FieldsExtracted      *prometheus.CounterVec
	FieldParseFailures   *prometheus.CounterVec
	ExtractionDuration   prometheus.Histogram
	LastRunFieldCoverage prometheus.Gauge
}

// NewMetrics creates and registers all extraction metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findoc_documents_total",
				Help: "Documents processed by the extraction stage, by outcome",
			},
			[]string{"status"},
		),
		FieldsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findoc_fields_extracted_total",
				Help: "Fields extracted, by category",
			},
			[]string{"category"},
		),
		FieldParseFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findoc_field_parse_failures_total",
				Help: "Fields whose pattern matched but whose value did not parse",
			},
			[]string{"field"},
		),
		ExtractionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "findoc_extraction_duration_seconds",
				Help:    "Time spent extracting one document",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		LastRunFieldCoverage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "findoc_last_run_field_coverage_ratio",
				Help: "Share of schema fields found, averaged over the last batch",
			},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDocument records one extraction.
func (m *Metrics) ObserveDocument(result types.ExtractionResult, diag Diagnostics, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionDuration.Observe(elapsed.Seconds())

	status := StatusExtracted
	if !result.Complete {
		status = StatusEmpty
	}
	m.DocumentsTotal.WithLabelValues(status).Inc()

	for _, cat := range types.Categories {
		if n := len(result.Category(cat)); n > 0 {
			m.FieldsExtracted.WithLabelValues(string(cat)).Add(float64(n))
		}
	}
	for _, f := range diag.Failures {
		m.FieldParseFailures.WithLabelValues(string(f.Field)).Inc()
	}
}

// ObserveStatus counts a document that was not extracted.
func (m *Metrics) ObserveStatus(status string) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes all metrics to path in the node_exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
