// Package parallel runs batches of independent compilation jobs on a fixed
// set of goroutines.
//
// Jobs are dealt round-robin to per-worker queues. An idle worker takes jobs
// from the queues of busy workers, so one slow partition does not leave the
// other workers waiting.
package parallel
