// Package pool provides a small, generic, fixed-size worker pool for
// running a batch of tasks concurrently.
//
// The primary type is WorkerPool[T, R], a configurable pool of workers which
// process tasks of type T and return results of type R. The pool supports
// context-aware processing, panic recovery, continue-on-error semantics,
// per-task hooks and locking each worker to its own OS thread (optionally
// pinned to a CPU core) via functional options.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	pool := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Processing Options
//
//   - Process: Processes a slice of tasks and returns values in input order
//     together with the first error by task index
//   - ProcessResults: Processes a slice of tasks and returns one Result per
//     task, carrying its value and error side by side
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set number of concurrent workers (default: GOMAXPROCS)
//   - WithTaskBuffer(n): Set task channel buffer size (default: worker count)
//   - WithContinueOnError(b): Keep processing the remaining tasks after a failure
//   - WithThreadLocking(pin): Lock each worker to an OS thread, optionally pinned to a core
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): Observe task execution
//
// # Error Handling
//
// By default the pool fails fast: the first task error cancels the remaining
// work. With WithContinueOnError(true) every task runs to completion and the
// errors are reported per task. Panics are always recovered and converted to
// errors with stack traces so a single task can never crash a worker.
package pool
