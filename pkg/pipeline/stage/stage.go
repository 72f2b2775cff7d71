package stage

import (
	"context"
	"fmt"
	"time"

	cverrors "github.com/conveyor-go/conveyor/pkg/common/errors"
	"github.com/conveyor-go/conveyor/pkg/common/validation"
	"github.com/conveyor-go/conveyor/pkg/pipeline/engine"
	"github.com/conveyor-go/conveyor/pkg/pipeline/work"
)

// Transform converts the data carried by a work item into its next value.
// Transforms are supplied by the caller and treated as opaque: they may
// return an error or panic, and the stage captures either per item without
// crashing the worker.
type Transform func(ctx context.Context, data interface{}) (interface{}, error)

// PanicError wraps a panic value recovered from a transform so it can cross
// the queue boundary as an ordinary error.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("transform panicked: %v", e.Value)
}

// Config holds the construction parameters for a stage.
type Config struct {
	// Name identifies the stage in stats, metrics and callbacks.
	// Defaults to "stage-<position>".
	Name string

	// Position is the stage's 0-based index in the pipeline.
	Position int

	// Workers is the fixed size of the stage's worker pool. Must be positive.
	Workers int

	// Transform is applied to every non-failed item this stage dequeues.
	Transform Transform

	// Engine is the shared coordination core the stage pulls from and
	// forwards to.
	Engine *engine.Engine

	// OnProcess, if set, is called after each transform invocation with the
	// stage name, the invocation duration, and the error if it failed.
	// Items that arrive already failed are forwarded without invoking the
	// transform and without triggering this callback.
	OnProcess func(stage string, duration time.Duration, err error)
}

// Stage runs a fixed pool of worker goroutines that apply one transform to
// items arriving on the stage's input queue.
type Stage struct {
	name      string
	position  int
	final     bool
	workers   int
	transform Transform
	engine    *engine.Engine
	onProcess func(stage string, duration time.Duration, err error)
}

// New validates cfg and constructs a stage. No goroutines are started until
// Start is called. A non-positive worker count, nil transform, nil engine,
// or out-of-range position fails with a configuration error and the stage is
// not created.
func New(cfg Config) (*Stage, error) {
	if cfg.Engine == nil {
		return nil, validation.ValidateNotNil("stage", "engine", nil)
	}
	if cfg.Transform == nil {
		return nil, validation.ValidateNotNil("stage", "transform", nil)
	}
	if err := validation.ValidatePositive("stage", "workers", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.Position < 0 || cfg.Position >= cfg.Engine.Stages() {
		return nil, cverrors.NewValidationError("stage", "position", cfg.Position, "out of range").
			WithHint(fmt.Sprintf("engine is sized for %d stages", cfg.Engine.Stages()))
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("stage-%d", cfg.Position)
	}

	return &Stage{
		name:      name,
		position:  cfg.Position,
		final:     cfg.Position == cfg.Engine.Stages()-1,
		workers:   cfg.Workers,
		transform: cfg.Transform,
		engine:    cfg.Engine,
		onProcess: cfg.OnProcess,
	}, nil
}

// Name returns the stage's identifier.
func (s *Stage) Name() string {
	return s.name
}

// Workers returns the configured worker pool size.
func (s *Stage) Workers() int {
	return s.workers
}

// Position returns the stage's 0-based pipeline index.
func (s *Stage) Position() int {
	return s.position
}

// Start spawns the stage's worker pool. Every worker runs an identical loop
// until it dequeues a shutdown sentinel. The given context is handed to each
// transform invocation.
func (s *Stage) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.engine.StartWorker(s.position, func() {
			s.run(ctx)
		})
	}
}

// run is the worker loop. A worker exits only via the shutdown sentinel;
// transform failures are captured per item and never terminate the loop.
func (s *Stage) run(ctx context.Context) {
	for {
		it, ok := s.engine.Dequeue(s.position)
		if !ok {
			return
		}
		s.process(ctx, it)
		s.engine.Enqueue(s.position+1, it)
		if s.final {
			s.engine.MarkComplete()
		}
	}
}

// process applies the transform to a non-failed item, mutating it in place.
// Failed items pass through untouched so the failure short-circuits every
// later stage.
func (s *Stage) process(ctx context.Context, it *work.Item) {
	if it.Failed() {
		return
	}

	start := time.Now()
	out, err := s.invoke(ctx, it.Data)
	duration := time.Since(start)

	if err != nil {
		// Data keeps the value that entered this stage.
		it.Fail(err)
	} else {
		it.Data = out
	}

	if s.onProcess != nil {
		s.onProcess(s.name, duration, err)
	}
}

// invoke calls the transform with panic recovery. A recovered panic is
// reported as a PanicError carrying the original panic value.
func (s *Stage) invoke(ctx context.Context, data interface{}) (out interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &PanicError{Value: r}
		}
	}()
	return s.transform(ctx, data)
}
