// Package metrics provides Prometheus instrumentation for conveyor components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for conveyor components.
type Registry struct {
	// Batch Metrics
	BatchItemsPushed    *prometheus.CounterVec
	BatchItemsCompleted *prometheus.CounterVec
	BatchItemsFailed    *prometheus.CounterVec
	BatchInFlight       *prometheus.GaugeVec
	BatchDrainDuration  *prometheus.HistogramVec

	// Stage Metrics
	StageProcessed *prometheus.CounterVec
	StageErrors    *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	StageWorkers   *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by conveyor components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		BatchItemsPushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "conveyor",
				Subsystem: "batch",
				Name:      "items_pushed_total",
				Help:      "Total number of items pushed into the batch",
			},
			[]string{"batch_name"},
		),

		BatchItemsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "conveyor",
				Subsystem: "batch",
				Name:      "items_completed_total",
				Help:      "Total number of items returned by Results",
			},
			[]string{"batch_name"},
		),

		BatchItemsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "conveyor",
				Subsystem: "batch",
				Name:      "items_failed_total",
				Help:      "Total number of items that finished with a stage error",
			},
			[]string{"batch_name"},
		),

		BatchInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "conveyor",
				Subsystem: "batch",
				Name:      "items_in_flight",
				Help:      "Number of items currently between push and the results queue",
			},
			[]string{"batch_name"},
		),

		BatchDrainDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "conveyor",
				Subsystem: "batch",
				Name:      "drain_duration_seconds",
				Help:      "Time spent in Results waiting for completion and draining",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"batch_name"},
		),

		StageProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "conveyor",
				Subsystem: "stage",
				Name:      "processed_total",
				Help:      "Total number of transform invocations per stage",
			},
			[]string{"batch_name", "stage_name"},
		),

		StageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "conveyor",
				Subsystem: "stage",
				Name:      "errors_total",
				Help:      "Total number of failed transform invocations per stage",
			},
			[]string{"batch_name", "stage_name"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "conveyor",
				Subsystem: "stage",
				Name:      "transform_duration_seconds",
				Help:      "Duration of individual transform invocations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"batch_name", "stage_name"},
		),

		StageWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "conveyor",
				Subsystem: "stage",
				Name:      "workers",
				Help:      "Configured worker pool size per stage",
			},
			[]string{"batch_name", "stage_name"},
		),
	}
}
