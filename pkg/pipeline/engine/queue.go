package engine

import (
	"sync"

	"github.com/conveyor-go/conveyor/pkg/pipeline/work"
)

// envelope is what actually travels on a queue: either a work item or a
// shutdown sentinel. A dedicated variant keeps the sentinel out of the
// caller's data domain.
type envelope struct {
	item     *work.Item
	sentinel bool
}

// queue is an unbounded multi-producer multi-consumer FIFO. Channels are not
// used here: they have fixed capacity, and pushing must never block the
// producer. Bounding queue growth is the caller's responsibility.
type queue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	entries  []envelope
}

func newQueue() *queue {
	q := &queue{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// push appends an envelope and wakes one blocked consumer. Never blocks.
func (q *queue) push(env envelope) {
	q.mu.Lock()
	q.entries = append(q.entries, env)
	q.mu.Unlock()
	q.nonEmpty.Signal()
}

// pop removes and returns the oldest envelope, blocking until one is available.
func (q *queue) pop() envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.entries) == 0 {
		q.nonEmpty.Wait()
	}
	env := q.entries[0]
	q.entries[0] = envelope{} // release the item reference
	q.entries = q.entries[1:]
	if len(q.entries) == 0 {
		q.entries = nil // let the backing array be collected
	}
	return env
}

// tryPop removes and returns the oldest envelope without blocking.
func (q *queue) tryPop() (envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return envelope{}, false
	}
	env := q.entries[0]
	q.entries[0] = envelope{}
	q.entries = q.entries[1:]
	if len(q.entries) == 0 {
		q.entries = nil
	}
	return env, true
}

// size returns the current number of queued envelopes.
func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
