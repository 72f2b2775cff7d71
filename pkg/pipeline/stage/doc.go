/*
Package stage runs one pipeline position: a fixed pool of worker goroutines
that apply a caller-supplied transform to items arriving on the stage's
input queue and forward them to the next one.

Each worker repeats the same loop: dequeue, transform (skipped when the item
already carries an error), forward. The final stage additionally marks the
item complete on the shared engine after forwarding it into the results
queue. Transform errors and panics are captured per item; nothing a
transform does can crash a worker or stall sibling items.

No lock is held while a transform runs, so a slow or blocking caller
callback never stalls queue or completion coordination.
*/
package stage
