// Package executor provides the partition-dispatch-aggregate engine used to
// evaluate a predicate over every value of a large integer range.
//
// The package implements a fixed-size worker pool draining a FIFO queue,
// per-task timing instrumentation, cooperative cancellation, and
// deterministic aggregation of partial results.
//
// # Key Features
//
//   - Worker pool with a fixed number of goroutines and a shared FIFO queue
//   - Non-blocking Submit returning a Handle per task, in submission order
//   - Shutdown, AwaitTermination with timeout, and forced ShutdownNow
//   - Cooperative cancellation checked at every value a Task evaluates
//   - Recorder of start/end timestamps per task with max and mean durations
//   - Aggregation in submission order regardless of completion order
//   - Task panics captured per handle; workers keep running
//
// # Basic Usage
//
//	recorder := executor.NewRecorder()
//	pool := executor.NewPool(4, recorder, logger)
//	defer pool.Close(context.Background())
//
//	ranges, _ := partition.Split(1, 1_000_000, 4)
//	handles := make([]*executor.Handle, 0, len(ranges))
//	for _, r := range ranges {
//	    h, err := pool.Submit(executor.Task{Range: r, Predicate: predicate.DecimalBinaryPalindrome()})
//	    if err != nil {
//	        return err
//	    }
//	    handles = append(handles, h)
//	}
//	pool.Shutdown()
//
//	finished, err := pool.AwaitTermination(ctx, time.Minute)
//	if err == nil && !finished {
//	    pool.ShutdownNow()
//	}
//
//	report := executor.Aggregate(ctx, handles, recorder, logger)
//
// # Cancellation
//
// ShutdownNow cancels the context shared by all tasks and drops the tasks still
// in the queue. A running Task notices the cancellation before evaluating its
// next value and returns the matches found so far with Cancelled set; this is
// a result, not an error. Dropped tasks resolve with ErrNotExecuted.
//
// # Error Handling
//
// Errors and panics inside a task are stored in that task's Handle as a
// *TaskError and surface only when the handle is read. Aggregate logs them and
// skips the contribution; other tasks are unaffected.
//
// # Statistics
//
// The pool calls Recorder.Start before and Recorder.End after every task it
// executes. Snapshot ignores tasks that never ended. With no finished task,
// max and mean are both zero.
//
// # Thread Safety
//
// All Pool methods are safe for concurrent use. Close releases the worker
// goroutines exactly once and may be called from any path.
package executor
