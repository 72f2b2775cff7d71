// Package metrics provides Prometheus instrumentation for conveyor components.
//
// This package enables monitoring and observability for conveyor batches and
// their stages through Prometheus metrics.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	b, err := batch.NewWithMetrics("image_batch",
//		batch.StageConfig{Name: "fetch", Transform: fetch, Workers: 8},
//		batch.StageConfig{Name: "resize", Transform: resize, Workers: 4},
//	)
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	b, err := batch.NewWithConfigAndMetrics(
//		batch.Config{Stages: stages},
//		"image_batch",
//		config,
//	)
//
// # Available Metrics
//
// ## Batch Metrics
//
//   - conveyor_batch_items_pushed_total: Items pushed into the batch
//   - conveyor_batch_items_completed_total: Items returned by Results
//   - conveyor_batch_items_failed_total: Items that finished with a stage error
//   - conveyor_batch_items_in_flight: Items currently between push and results
//   - conveyor_batch_drain_duration_seconds: Time spent in Results
//
// ## Stage Metrics
//
//   - conveyor_stage_processed_total: Transform invocations per stage
//   - conveyor_stage_errors_total: Failed transform invocations per stage
//   - conveyor_stage_transform_duration_seconds: Transform invocation duration
//   - conveyor_stage_workers: Configured worker pool size per stage
//
// All metrics carry a batch_name label; stage metrics additionally carry
// stage_name.
package metrics
