/*
Package engine implements the coordination core of a conveyor pipeline: the
chain of inter-stage queues, the in-flight item counter, the completion wait,
and the sentinel-based shutdown protocol.

The engine knows nothing about transformations. Stage workers interact with
it through four operations:

	item, ok := eng.Dequeue(i)   // blocking pop; ok == false means shut down
	eng.Enqueue(i+1, item)       // forward to the next stage (or results)
	eng.MarkComplete()           // final stage only, after forwarding
	eng.StartWorker(i, loop)     // register and launch a worker goroutine

Completion detection deliberately does not rely on "results queue holds all
items" or "all queues are empty": a worker may hold an item that is in no
queue at all while mid-transformation. Instead an explicit in-flight counter
is incremented exactly once per item (on entry at queue 0) and decremented
exactly once per item (by the final stage after forwarding into the results
queue). WaitForCompletion blocks on that counter under the same lock that
guards it, so a concurrent decrement can never slip between the check and
the wait.

Queues are unbounded: Enqueue never blocks the producer, and there is no
backpressure. Memory is bounded only by caller discipline.

Shutdown pushes one sentinel per registered worker onto each stage's input
queue and joins all workers. Sentinels are a dedicated envelope variant, so
no caller value can ever be mistaken for one.
*/
package engine
