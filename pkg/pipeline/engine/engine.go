package engine

import (
	"sync"

	"github.com/conveyor-go/conveyor/pkg/pipeline/work"
)

// Engine owns the queue topology and the completion/shutdown coordination of
// one pipeline run, independent of any transformation logic. For N stages it
// holds N+1 queues: queue i feeds stage i, queue N collects results.
type Engine struct {
	queues []*queue

	// mu guards both the in-flight counter and the completion condition so a
	// decrement-check-notify can never race a concurrent wait (lost wakeup).
	mu       sync.Mutex
	complete *sync.Cond
	inFlight int

	// workersPerStage records how many worker goroutines each stage started,
	// so Shutdown can deliver exactly one sentinel per worker.
	workersMu       sync.Mutex
	workersPerStage []int

	wg sync.WaitGroup
}

// New creates an engine for the given number of stages.
func New(stages int) *Engine {
	e := &Engine{
		queues:          make([]*queue, stages+1),
		workersPerStage: make([]int, stages),
	}
	for i := range e.queues {
		e.queues[i] = newQueue()
	}
	e.complete = sync.NewCond(&e.mu)
	return e
}

// Stages returns the number of stages this engine was sized for.
func (e *Engine) Stages() int {
	return len(e.queues) - 1
}

// Enqueue places an item onto the input queue of the given stage. Enqueueing
// at stage 0 is the single point where an item becomes in-flight, so the
// counter is incremented here and nowhere else.
func (e *Engine) Enqueue(stage int, it *work.Item) {
	if stage == 0 {
		e.mu.Lock()
		e.inFlight++
		e.mu.Unlock()
	}
	e.queues[stage].push(envelope{item: it})
}

// Dequeue blocks until the given stage's input queue yields an item or a
// shutdown sentinel. The second return value is false when the caller's
// worker loop should exit.
func (e *Engine) Dequeue(stage int) (*work.Item, bool) {
	env := e.queues[stage].pop()
	if env.sentinel {
		return nil, false
	}
	return env.item, true
}

// TryDequeueResult removes the oldest item from the results queue without
// blocking. It reports false when the queue is empty; after WaitForCompletion
// and Shutdown that means the drain is finished. Sentinels never enter the
// results queue.
func (e *Engine) TryDequeueResult() (*work.Item, bool) {
	env, ok := e.queues[len(e.queues)-1].tryPop()
	if !ok {
		return nil, false
	}
	return env.item, true
}

// QueueLen returns the current depth of the given stage's input queue.
// Index Stages() addresses the results queue.
func (e *Engine) QueueLen(stage int) int {
	return e.queues[stage].size()
}

// StartWorker launches fn as a worker goroutine for the given stage and
// registers it so Shutdown can signal and join it.
func (e *Engine) StartWorker(stage int, fn func()) {
	e.workersMu.Lock()
	e.workersPerStage[stage]++
	e.workersMu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// MarkComplete records that one item has been deposited into the results
// queue. It is called exactly once per item, by the final stage's worker,
// after forwarding. When the in-flight count reaches zero every waiter in
// WaitForCompletion is woken.
func (e *Engine) MarkComplete() {
	e.mu.Lock()
	e.inFlight--
	if e.inFlight == 0 {
		e.complete.Broadcast()
	}
	e.mu.Unlock()
}

// InFlight returns the number of items that have entered the pipeline but
// not yet reached the results queue.
func (e *Engine) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// WaitForCompletion blocks until the in-flight count is zero. If it already
// is, the call returns immediately.
func (e *Engine) WaitForCompletion() {
	e.mu.Lock()
	for e.inFlight > 0 {
		e.complete.Wait()
	}
	e.mu.Unlock()
}

// Shutdown delivers one sentinel per registered worker onto each stage's
// input queue, guaranteeing every worker observes exactly one and exits its
// loop, then joins all workers. Call only after WaitForCompletion; the
// protocol is a clean drain, not a cancellation.
func (e *Engine) Shutdown() {
	e.workersMu.Lock()
	counts := make([]int, len(e.workersPerStage))
	copy(counts, e.workersPerStage)
	e.workersMu.Unlock()

	for stage, n := range counts {
		for i := 0; i < n; i++ {
			e.queues[stage].push(envelope{sentinel: true})
		}
	}
	e.wg.Wait()
}
