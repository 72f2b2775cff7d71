package work

import "sync/atomic"

// Item is the envelope carried through every stage of a pipeline. It is
// created when data is pushed, mutated in place by each stage worker that
// processes it, and consumed when results are drained.
type Item struct {
	// Index is the item's position in push order. It is assigned once at
	// push time and is the sole ordering key for final results.
	Index int64

	// Data holds the current transformed value. When a stage fails, Data is
	// left at the value that entered that stage, never a partial result.
	Data interface{}

	// Err records the first stage failure, if any. Once set it is never
	// cleared and never overwritten by a later stage.
	Err error
}

// New creates an item for data at the given push index.
func New(index int64, data interface{}) *Item {
	return &Item{Index: index, Data: data}
}

// Failed reports whether the item carries a stage failure. A failed item is
// forwarded through remaining stages without their transforms being invoked.
func (it *Item) Failed() bool {
	return it.Err != nil
}

// Fail records err against the item. The first recorded error wins; later
// calls are ignored so a failure is never masked downstream.
func (it *Item) Fail(err error) {
	if it.Err == nil {
		it.Err = err
	}
}

// Sequence is a thread-safe monotonically increasing index generator. The
// zero value is ready to use and starts at 0. Concurrent callers never
// observe the same value and no value is skipped.
type Sequence struct {
	next atomic.Int64
}

// Next returns the next index in the sequence.
func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}

// Count returns how many indices have been handed out so far.
func (s *Sequence) Count() int64 {
	return s.next.Load()
}
