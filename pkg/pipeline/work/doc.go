// Package work defines the unit of data that flows through a pipeline.
//
// An Item pairs the caller's payload with the index it was pushed at and an
// optional error recorded by the stage that failed it. Stages mutate the
// item in place and forward it; the batch layer sorts drained items by index
// to restore push order.
//
// A Sequence hands out those indices: a gapless, strictly increasing series
// starting at 0, safe for arbitrary concurrent callers.
package work
