/*
Package conveyor provides a Go library for concurrent multi-stage batch
processing with ordered result collection.

Batch Processing (pkg/pipeline):
  - batch: Batch lifecycle, push/results API, and stats
  - stage: Worker pools applying a transform per stage
  - engine: Stage queues, in-flight tracking, and shutdown
  - work: Indexed work items and gapless sequence numbering

Supporting Packages:
  - config: YAML batch declarations and a named transform registry
  - metrics: Prometheus instrumentation for batches and stages
  - common/errors: Configuration, validation, and state errors
  - common/validation: Input validation helpers

Example usage:

	import "github.com/conveyor-go/conveyor/pkg/pipeline/batch"

	b, _ := batch.Build(func(c *batch.Builder) {
		c.Stage("uppercase", upperTransform)
		c.StageWorkers("enrich", enrichTransform, 8)
	})

	b.Push("hello")
	b.Push("world")

	results, _ := b.Results() // ordered by push position
*/
package conveyor
