package batch

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/conveyor-go/conveyor/pkg/common/validation"
	"github.com/conveyor-go/conveyor/pkg/metrics"
)

// MetricsBatch wraps a Batch with Prometheus metrics collection.
type MetricsBatch struct {
	batch    Batch
	name     string
	registry *metrics.Registry
}

// NewWithMetrics creates a new batch with metrics enabled.
func NewWithMetrics(name string, cfgs ...StageConfig) (Batch, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{Stages: cfgs}, name, config)
}

// NewWithConfigAndMetrics creates a new batch with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Batch, error) {
	if err := validation.ValidateNotEmpty("batch", "name", name); err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return NewWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	// Chain per-invocation stage observations into the registry before the
	// base batch captures the config.
	userProcess := config.OnStageProcess
	config.OnStageProcess = func(stageName string, duration time.Duration, err error) {
		registry.StageProcessed.WithLabelValues(name, stageName).Inc()
		registry.StageDuration.WithLabelValues(name, stageName).Observe(duration.Seconds())
		if err != nil {
			registry.StageErrors.WithLabelValues(name, stageName).Inc()
		}
		if userProcess != nil {
			userProcess(stageName, duration, err)
		}
	}

	base, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	mb := &MetricsBatch{
		batch:    base,
		name:     name,
		registry: registry,
	}

	for i, sc := range config.Stages {
		stageName := sc.Name
		if stageName == "" {
			stageName = fmt.Sprintf("stage-%d", i)
		}
		registry.StageWorkers.WithLabelValues(name, stageName).Set(float64(sc.Workers))
	}
	mb.updateMetrics()

	return mb, nil
}

// updateMetrics refreshes the gauge metrics from the underlying batch state.
func (mb *MetricsBatch) updateMetrics() {
	stats := mb.batch.Stats()
	mb.registry.BatchInFlight.WithLabelValues(mb.name).Set(float64(stats.InFlight))
}

// ID returns the unique identifier generated for this batch run.
func (mb *MetricsBatch) ID() string {
	return mb.batch.ID()
}

// Start spawns every stage's worker pool and transitions to Running.
func (mb *MetricsBatch) Start() error {
	return mb.batch.Start()
}

// Push submits data into the pipeline and counts the accepted item.
func (mb *MetricsBatch) Push(data interface{}) error {
	err := mb.batch.Push(data)
	if err == nil {
		mb.registry.BatchItemsPushed.WithLabelValues(mb.name).Inc()
	}
	mb.updateMetrics()
	return err
}

// Results drains the batch and records completion and failure counts plus
// the total drain duration.
func (mb *MetricsBatch) Results() ([]Result, error) {
	start := time.Now()
	results, err := mb.batch.Results()
	if err != nil {
		return nil, err
	}

	mb.registry.BatchDrainDuration.WithLabelValues(mb.name).Observe(time.Since(start).Seconds())
	for _, r := range results {
		mb.registry.BatchItemsCompleted.WithLabelValues(mb.name).Inc()
		if r.Err != nil {
			mb.registry.BatchItemsFailed.WithLabelValues(mb.name).Inc()
		}
	}
	mb.updateMetrics()
	return results, nil
}

// State returns the batch's current lifecycle state.
func (mb *MetricsBatch) State() State {
	return mb.batch.State()
}

// Stats returns batch execution statistics.
func (mb *MetricsBatch) Stats() Stats {
	return mb.batch.Stats()
}
