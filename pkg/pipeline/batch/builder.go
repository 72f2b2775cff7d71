package batch

import (
	"github.com/conveyor-go/conveyor/pkg/pipeline/stage"
)

// DefaultWorkers is the worker pool size used by builder stages that do not
// specify one.
const DefaultWorkers = 4

// Builder collects stage declarations for Build.
type Builder struct {
	stages []StageConfig
}

// Stage declares a stage with the default worker pool size.
func (b *Builder) Stage(name string, transform stage.Transform) *Builder {
	return b.StageWorkers(name, transform, DefaultWorkers)
}

// StageWorkers declares a stage with an explicit worker pool size.
func (b *Builder) StageWorkers(name string, transform stage.Transform, workers int) *Builder {
	b.stages = append(b.stages, StageConfig{Name: name, Transform: transform, Workers: workers})
	return b
}

// Build constructs a batch from a declarative stage list and starts it
// before returning, so the result is immediately ready for Push.
//
//	b, err := batch.Build(func(c *batch.Builder) {
//		c.Stage("uppercase", upper)
//		c.StageWorkers("publish", publish, 8)
//	})
func Build(define func(*Builder)) (Batch, error) {
	builder := &Builder{}
	define(builder)

	b, err := New(builder.stages...)
	if err != nil {
		return nil, err
	}
	if err := b.Start(); err != nil {
		return nil, err
	}
	return b, nil
}
