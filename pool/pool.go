package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool is a generic, fixed-size worker pool.
// It provides concurrent task processing with configurable worker count,
// context support, and proper error handling.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	workerCount     int
	taskBuffer      int
	continueOnError bool
	lockThreads     bool
	pinThreads      bool

	beforeTaskStart func(T)
	onTaskEnd       func(T, R, error)
}

// NewWorkerPool creates a new worker pool with the given options.
// Default configuration: workers = GOMAXPROCS, buffer = worker count.
//
// NewWorkerPool panics if a hook registered with WithBeforeTaskStart or
// WithOnTaskEnd does not match the pool's task or result type.
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	cfg := &workerPoolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		taskBuffer:  0, // Will be set to workerCount if not specified
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}

	var zeroT T
	var zeroR R
	expectedTaskType := fmt.Sprintf("%T", zeroT)
	expectedResultType := fmt.Sprintf("%T", zeroR)

	beforeTaskStart, onTaskEnd := checkfuncs[T, R](cfg, expectedTaskType, expectedResultType)

	return &WorkerPool[T, R]{
		workerCount:     cfg.workerCount,
		taskBuffer:      cfg.taskBuffer,
		continueOnError: cfg.continueOnError,
		lockThreads:     cfg.lockThreads,
		pinThreads:      cfg.pinThreads,
		beforeTaskStart: beforeTaskStart,
		onTaskEnd:       onTaskEnd,
	}
}

// WorkerCount returns the configured number of workers.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.workerCount
}

// Process executes tasks concurrently using a pool of workers.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - tasks: Slice of tasks to process
//   - processFn: Function to process each task
//
// Returns:
//   - results: Slice of all results in input order (may be partial if errors occurred)
//   - error: The error of the lowest-indexed failed task. Tasks that were skipped
//     only count when no task actually failed; in that case the context error is
//     returned if the caller's context was cancelled.
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	outcomes := wp.ProcessResults(ctx, tasks, processFn)

	results := make([]R, len(outcomes))
	for i, o := range outcomes {
		results[i] = o.Value
	}

	if err := FirstError(outcomes); err != nil {
		if errors.Is(err, ErrTaskSkipped) && ctx.Err() != nil {
			return results, ctx.Err()
		}
		return results, err
	}
	return results, nil
}

// ProcessResults executes tasks concurrently and returns one Result per task,
// indexed like the input. Tasks that never ran carry ErrTaskSkipped.
//
// Unlike Process, a task's value is kept even when it also returned an error.
func (wp *WorkerPool[T, R]) ProcessResults(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) []Result[R] {
	results := make([]Result[R], len(tasks))
	for i := range results {
		results[i] = Result[R]{Index: i, Error: ErrTaskSkipped}
	}
	if len(tasks) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	taskChan := make(chan indexedTask[T], wp.taskBuffer)

	numWorkers := min(wp.workerCount, len(tasks))
	for workerID := range numWorkers {
		g.Go(func() error {
			return wp.worker(ctx, workerID, taskChan, results, processFn)
		})
	}

	g.Go(func() error {
		defer close(taskChan)
		for idx, task := range tasks {
			select {
			case taskChan <- indexedTask[T]{index: idx, task: task}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Every outcome is already recorded in results, including the error that
	// stopped the group.
	_ = g.Wait()
	return results
}

// FirstError returns the error of the lowest-indexed task that failed. Skipped
// tasks are only reported when no task failed.
func FirstError[R any](results []Result[R]) error {
	var skipped error
	for _, r := range results {
		if r.Error == nil {
			continue
		}
		if errors.Is(r.Error, ErrTaskSkipped) {
			if skipped == nil {
				skipped = r.Error
			}
			continue
		}
		return r.Error
	}
	return skipped
}
