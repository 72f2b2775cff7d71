/*
Package batch composes an ordered list of stages over one shared engine and
exposes the external push/results lifecycle of a conveyor pipeline.

A batch moves through four states, in one direction only:

	unstarted --Start--> running --Results begins--> locked --Results returns--> stopped

Push is legal only while running; Results is legal exactly once, from
running. Violations fail with a state error that wraps
errors.ErrInvalidState.

Basic usage:

	b, err := batch.New(
		batch.StageConfig{Name: "fetch", Transform: fetch, Workers: 8},
		batch.StageConfig{Name: "resize", Transform: resize, Workers: 4},
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := b.Start(); err != nil {
		log.Fatal(err)
	}

	for _, u := range urls {
		if err := b.Push(u); err != nil {
			log.Fatal(err)
		}
	}

	results, err := b.Results()

Results always returns one entry per push, sorted by push order, no matter
in which order items actually completed. Each entry carries the item's final
data and a nil error, or, for items that failed at some stage, the captured
error alongside the data as it entered the failing stage. One item's failure
never affects any other item.

The declarative Build helper constructs and starts a batch in one step, with
a default of 4 workers per stage:

	b, err := batch.Build(func(c *batch.Builder) {
		c.Stage("uppercase", upper)
		c.Stage("exclaim", exclaim)
	})

For Prometheus instrumentation use NewWithMetrics or
NewWithConfigAndMetrics; see the metrics package.

Queues between stages are unbounded and the pipeline applies no
backpressure: if producers outpace the slowest stage, memory grows with the
backlog. Bounding the number of outstanding pushes is the caller's
responsibility.
*/
package batch
