package batch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	cverrors "github.com/conveyor-go/conveyor/pkg/common/errors"
	"github.com/conveyor-go/conveyor/pkg/pipeline/engine"
	"github.com/conveyor-go/conveyor/pkg/pipeline/stage"
	"github.com/conveyor-go/conveyor/pkg/pipeline/work"
)

// State is a batch's lifecycle position. Transitions are one-directional:
// Unstarted -> Running -> Locked -> Stopped.
type State int32

const (
	// Unstarted means Start has not been called; no workers exist yet.
	Unstarted State = iota
	// Running means workers are live and Push is accepted.
	Running
	// Locked means Results has begun draining; further pushes are rejected.
	Locked
	// Stopped means all workers have been joined and results collected.
	Stopped
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Locked:
		return "locked"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result is one (data, error) pair returned by Results, in push order.
type Result struct {
	// Data is the item's value after its last successfully completed stage,
	// or the original input if the very first stage failed.
	Data interface{}

	// Err is nil on success, otherwise the error captured at the stage
	// where processing stopped for this item.
	Err error
}

// StageConfig describes one pipeline position.
type StageConfig struct {
	// Name identifies the stage in stats, metrics and callbacks.
	// Defaults to "stage-<position>".
	Name string

	// Transform is applied to every item that reaches this stage without a
	// prior failure.
	Transform stage.Transform

	// Workers is the fixed worker pool size for this stage. Must be positive.
	Workers int
}

// Config holds batch configuration options.
type Config struct {
	// Stages declares the pipeline positions in order.
	Stages []StageConfig

	// Context is the base context handed to every transform invocation.
	// If nil, context.Background() is used. Note that the pipeline itself
	// never cancels items: every pushed item runs to completion.
	Context context.Context

	// OnPush is called after an item has been accepted, with its index.
	OnPush func(index int64, data interface{})

	// OnStageProcess is called after each transform invocation.
	OnStageProcess func(stageName string, duration time.Duration, err error)

	// OnError is called when a transform invocation fails.
	OnError func(stageName string, err error)
}

// StageStats holds statistics for an individual stage.
type StageStats struct {
	Name            string
	Workers         int
	Processed       int64
	Errors          int64
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

// Stats holds batch execution statistics.
type Stats struct {
	ID         string
	State      State
	Pushed     int64
	Completed  int64
	Failed     int64
	InFlight   int
	StageStats map[string]StageStats
}

// Batch wires an ordered list of stages to one shared engine and exposes
// the push/results lifecycle.
type Batch interface {
	// ID returns the unique identifier generated for this batch run.
	ID() string

	// Start spawns every stage's worker pool and transitions to Running.
	// It fails with a configuration error if no stages were declared.
	Start() error

	// Push submits data into the pipeline. Legal only while Running.
	Push(data interface{}) error

	// Results locks the batch against further pushes, waits for every
	// pushed item to transit the pipeline, shuts the workers down, and
	// returns one Result per push, ordered by push index.
	Results() ([]Result, error)

	// State returns the batch's current lifecycle state.
	State() State

	// Stats returns batch execution statistics.
	Stats() Stats
}

// batch implements the Batch interface.
type batch struct {
	id     string
	config Config
	ctx    context.Context

	engine *engine.Engine
	stages []*stage.Stage
	seq    work.Sequence

	// mu guards the lifecycle state and spans both the Push guard and the
	// enqueue, so concurrent pushes cannot race a Results call into the
	// locked pipeline.
	mu    sync.Mutex
	state State

	statsMu    sync.Mutex
	failed     int64
	stageStats map[string]*StageStats
}

// New creates a batch from an ordered list of stage configs. No goroutines
// are started until Start is called. Any invalid stage config (non-positive
// worker count, nil transform) fails construction with a configuration
// error.
func New(cfgs ...StageConfig) (Batch, error) {
	return NewWithConfig(Config{Stages: cfgs})
}

// NewWithConfig creates a batch with the specified configuration.
func NewWithConfig(config Config) (Batch, error) {
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}

	b := &batch{
		id:         uuid.New().String(),
		config:     config,
		ctx:        ctx,
		engine:     engine.New(len(config.Stages)),
		state:      Unstarted,
		stageStats: make(map[string]*StageStats),
	}

	for i, sc := range config.Stages {
		st, err := stage.New(stage.Config{
			Name:      sc.Name,
			Position:  i,
			Workers:   sc.Workers,
			Transform: sc.Transform,
			Engine:    b.engine,
			OnProcess: b.recordProcess,
		})
		if err != nil {
			return nil, err
		}
		// Names key stats and metrics label series, so they must be unique.
		if _, exists := b.stageStats[st.Name()]; exists {
			return nil, cverrors.NewValidationError("batch", "stages", st.Name(), "duplicate stage name").
				WithHint("give each stage a distinct name")
		}
		b.stages = append(b.stages, st)
		b.stageStats[st.Name()] = &StageStats{Name: st.Name(), Workers: st.Workers()}
	}

	return b, nil
}

// ID returns the unique identifier generated for this batch run.
func (b *batch) ID() string {
	return b.id
}

// Start spawns every stage's worker pool and transitions to Running.
func (b *batch) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Unstarted {
		return cverrors.NewStateError("batch", "Start", b.state.String())
	}
	if len(b.stages) == 0 {
		return cverrors.NewValidationError("batch", "stages", 0, "at least one stage is required").
			WithHint("declare stages before calling Start")
	}

	for _, st := range b.stages {
		st.Start(b.ctx)
	}
	b.state = Running
	return nil
}

// Push submits data into the pipeline. The lock spans both the state guard
// and the enqueue, so Push is safe from multiple producer goroutines even
// while another goroutine is calling Results.
func (b *batch) Push(data interface{}) error {
	b.mu.Lock()
	if b.state != Running {
		state := b.state
		b.mu.Unlock()
		return cverrors.NewStateError("batch", "Push", state.String())
	}

	it := work.New(b.seq.Next(), data)
	b.engine.Enqueue(0, it)
	b.mu.Unlock()

	if b.config.OnPush != nil {
		b.config.OnPush(it.Index, data)
	}
	return nil
}

// Results locks the batch, waits for completion, shuts down, drains the
// results queue, and returns the (data, error) pairs in push order.
func (b *batch) Results() ([]Result, error) {
	b.mu.Lock()
	if b.state != Running {
		state := b.state
		b.mu.Unlock()
		return nil, cverrors.NewStateError("batch", "Results", state.String())
	}
	b.state = Locked
	b.mu.Unlock()

	// Neither wait may hold the lifecycle lock: workers are still moving
	// items and pushes must fail fast rather than queue behind the drain.
	b.engine.WaitForCompletion()
	b.engine.Shutdown()

	b.mu.Lock()
	b.state = Stopped
	b.mu.Unlock()

	// All workers have been joined, so the non-blocking drain sees every item.
	items := make([]*work.Item, 0, b.seq.Count())
	for {
		it, ok := b.engine.TryDequeueResult()
		if !ok {
			break
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })

	results := make([]Result, len(items))
	for i, it := range items {
		results[i] = Result{Data: it.Data, Err: it.Err}
	}
	return results, nil
}

// State returns the batch's current lifecycle state.
func (b *batch) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns batch execution statistics.
func (b *batch) Stats() Stats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()

	stats := Stats{
		ID:         b.id,
		State:      b.State(),
		Pushed:     b.seq.Count(),
		InFlight:   b.engine.InFlight(),
		Failed:     b.failed,
		StageStats: make(map[string]StageStats, len(b.stageStats)),
	}
	stats.Completed = stats.Pushed - int64(stats.InFlight)

	for name, ss := range b.stageStats {
		copied := *ss
		if copied.Processed > 0 {
			copied.AverageDuration = time.Duration(int64(copied.TotalDuration) / copied.Processed)
		}
		stats.StageStats[name] = copied
	}
	return stats
}

// recordProcess is installed as every stage's OnProcess hook. It runs on
// worker goroutines, so it takes only the stats lock and calls user
// callbacks outside any lock the batch API uses.
func (b *batch) recordProcess(stageName string, duration time.Duration, err error) {
	b.statsMu.Lock()
	if ss, ok := b.stageStats[stageName]; ok {
		ss.Processed++
		ss.TotalDuration += duration
		if err != nil {
			ss.Errors++
		}
	}
	if err != nil {
		b.failed++
	}
	b.statsMu.Unlock()

	if b.config.OnStageProcess != nil {
		b.config.OnStageProcess(stageName, duration, err)
	}
	if err != nil && b.config.OnError != nil {
		b.config.OnError(stageName, err)
	}
}
