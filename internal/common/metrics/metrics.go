// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of the process. The OpenTelemetry exporter
// registers into it as well, so one textfile dump carries both.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	SourceRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brreg_source_requests_total",
			Help: "Total number of requests sent to a register source",
		},
		[]string{"source", "status"},
	)

	SourceRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brreg_source_request_duration_seconds",
			Help:    "Duration of register source requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	SourceRetries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brreg_source_retries_total",
			Help: "Total number of retried register source requests",
		},
		[]string{"source"},
	)

	OperationsCompleted = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brreg_operations_completed_total",
			Help: "Total number of completed lookup operations",
		},
		[]string{"operation"},
	)

	OperationsFailed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brreg_operations_failed_total",
			Help: "Total number of failed lookup operations",
		},
		[]string{"operation", "error_code"},
	)

	OperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "brreg_operation_duration_seconds",
			Help: "Duration of lookup operations in seconds",
		},
		[]string{"operation"},
	)

	OperationsActive = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "brreg_operations_active",
			Help: "Number of lookup operations in progress",
		},
		[]string{"operation"},
	)
)

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
