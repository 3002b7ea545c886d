package pool

import (
	"context"
	"errors"
)

// ErrTaskSkipped is recorded for tasks that were never started because the
// pool stopped early, either after a failure in fail-fast mode or because
// the context was cancelled.
var ErrTaskSkipped = errors.New("pool: task skipped")

// ProcessFunc is a function type that defines how individual tasks are processed in the worker pool.
// It takes a context for cancellation/timeout control and a task of type T, returning a result of type R.
//
// Type parameters:
//   - T: The type of input task to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result represents the outcome of processing a single task in the worker pool.
// It encapsulates both the produced value and any error, along with the task's original position.
//
// Type parameters:
//   - R: The type of the result value
//
// Fields:
//   - Value: The result produced by processing the task. A task may return a
//     meaningful value together with an error (for example a partial count)
//   - Error: Any error that occurred during task processing (nil if successful)
//   - Index: The original position of the task in the input slice
type Result[R any] struct {
	Value R
	Error error
	Index int
}

type indexedTask[T any] struct {
	index int
	task  T
}
