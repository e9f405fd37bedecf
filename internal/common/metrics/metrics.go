// internal/common/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourcesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_sources_read_total",
			Help: "Total number of source workbooks read, by outcome",
		},
		[]string{"status"},
	)

	RecordsNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_records_total",
			Help: "Total number of evaluation records produced",
		},
	)

	RowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_rows_dropped_total",
			Help: "Total number of source rows dropped for a missing candidate identity",
		},
	)

	Mismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_mismatches_total",
			Help: "Total number of declared/computed result mismatches found",
		},
	)

	ReviewerAnomalies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_reviewer_anomalies_total",
			Help: "Total number of candidates with an unexpected reviewer count",
		},
	)

	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_documents_generated_total",
			Help: "Total number of report documents generated",
		},
		[]string{"layout", "scope"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_requests_total",
			Help: "Record-set cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"stage"},
	)
)

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
