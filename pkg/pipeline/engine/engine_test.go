package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conveyor-go/conveyor/internal/testutil"
	"github.com/conveyor-go/conveyor/pkg/pipeline/work"
)

func TestNewTopology(t *testing.T) {
	eng := New(3)

	testutil.AssertEqual(t, eng.Stages(), 3)
	testutil.AssertEqual(t, eng.InFlight(), 0)
	if _, ok := eng.TryDequeueResult(); ok {
		t.Error("results queue should start empty")
	}
}

func TestEnqueueAtStageZeroCountsInFlight(t *testing.T) {
	eng := New(2)

	eng.Enqueue(0, work.New(0, "a"))
	eng.Enqueue(0, work.New(1, "b"))
	testutil.AssertEqual(t, eng.InFlight(), 2)

	// Forwarding between stages must not touch the counter.
	it, ok := eng.Dequeue(0)
	if !ok {
		t.Fatal("unexpected sentinel")
	}
	eng.Enqueue(1, it)
	testutil.AssertEqual(t, eng.InFlight(), 2)
}

func TestMarkCompleteReachesZero(t *testing.T) {
	eng := New(1)

	eng.Enqueue(0, work.New(0, nil))
	eng.Enqueue(0, work.New(1, nil))

	eng.MarkComplete()
	testutil.AssertEqual(t, eng.InFlight(), 1)
	eng.MarkComplete()
	testutil.AssertEqual(t, eng.InFlight(), 0)
}

func TestWaitForCompletionReturnsImmediatelyWhenIdle(t *testing.T) {
	eng := New(1)

	done := make(chan struct{})
	go func() {
		eng.WaitForCompletion()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForCompletion should return immediately with nothing in flight")
	}
}

func TestWaitForCompletionBlocksUntilZero(t *testing.T) {
	eng := New(1)
	eng.Enqueue(0, work.New(0, nil))

	done := make(chan struct{})
	go func() {
		eng.WaitForCompletion()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForCompletion returned with one item in flight")
	case <-time.After(20 * time.Millisecond):
	}

	eng.MarkComplete()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForCompletion did not wake on the final MarkComplete")
	}
}

func TestWaitForCompletionConcurrentCompletes(t *testing.T) {
	const items = 200
	eng := New(1)

	for i := 0; i < items; i++ {
		eng.Enqueue(0, work.New(int64(i), nil))
	}

	var wg sync.WaitGroup
	for i := 0; i < items; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.MarkComplete()
		}()
	}

	eng.WaitForCompletion()
	wg.Wait()
	testutil.AssertEqual(t, eng.InFlight(), 0)
}

func TestTryDequeueResult(t *testing.T) {
	eng := New(1)

	if _, ok := eng.TryDequeueResult(); ok {
		t.Fatal("empty results queue should report false")
	}

	eng.Enqueue(0, work.New(0, "a"))
	it, ok := eng.Dequeue(0)
	if !ok {
		t.Fatal("unexpected sentinel")
	}
	eng.Enqueue(1, it)

	got, ok := eng.TryDequeueResult()
	if !ok {
		t.Fatal("results queue should yield the forwarded item")
	}
	testutil.AssertEqual(t, got.Index, int64(0))

	if _, ok := eng.TryDequeueResult(); ok {
		t.Fatal("drained results queue should report false")
	}
}

func TestShutdownDeliversOneSentinelPerWorker(t *testing.T) {
	const workersPerStage = 3
	eng := New(2)

	var exited int32
	for stage := 0; stage < 2; stage++ {
		for w := 0; w < workersPerStage; w++ {
			s := stage
			eng.StartWorker(s, func() {
				for {
					if _, ok := eng.Dequeue(s); !ok {
						atomic.AddInt32(&exited, 1)
						return
					}
				}
			})
		}
	}

	eng.Shutdown()
	testutil.AssertEqual(t, atomic.LoadInt32(&exited), int32(2*workersPerStage))

	// Every sentinel must have been consumed; none may linger.
	testutil.AssertEqual(t, eng.QueueLen(0), 0)
	testutil.AssertEqual(t, eng.QueueLen(1), 0)
}

// TestNoItemLoss drives items through hand-built forwarding workers and
// verifies every item lands in the results queue exactly once.
func TestNoItemLoss(t *testing.T) {
	const (
		items   = 500
		workers = 4
	)
	eng := New(1)

	for w := 0; w < workers; w++ {
		eng.StartWorker(0, func() {
			for {
				it, ok := eng.Dequeue(0)
				if !ok {
					return
				}
				eng.Enqueue(1, it)
				eng.MarkComplete()
			}
		})
	}

	for i := 0; i < items; i++ {
		eng.Enqueue(0, work.New(int64(i), i))
	}

	eng.WaitForCompletion()
	eng.Shutdown()

	seen := make(map[int64]bool)
	for {
		it, ok := eng.TryDequeueResult()
		if !ok {
			break
		}
		if seen[it.Index] {
			t.Fatalf("index %d delivered twice", it.Index)
		}
		seen[it.Index] = true
	}
	testutil.AssertEqual(t, len(seen), items)
}
