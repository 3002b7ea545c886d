package pool

import (
	"context"
	"fmt"
	"runtime"

	"github.com/utkarsh5026/cpubench/internal/cpu"
)

// worker is the core worker function that processes tasks from the task channel.
// It includes panic recovery to prevent a single task from crashing the entire pool.
// Each worker writes only to the result slots of the tasks it received, so no
// further synchronization is needed on results.
func (wp *WorkerPool[T, R]) worker(
	ctx context.Context,
	workerID int,
	taskChan <-chan indexedTask[T],
	results []Result[R],
	processFn ProcessFunc[T, R],
) error {
	if wp.lockThreads {
		release := cpu.LockWorker(workerID, wp.pinThreads)
		defer release()
	}

	for {
		select {
		case t, ok := <-taskChan:
			if !ok {
				return nil
			}

			if wp.beforeTaskStart != nil {
				wp.beforeTaskStart(t.task)
			}

			result, err := processWithRecovery(ctx, t.task, processFn)
			if wp.onTaskEnd != nil {
				wp.onTaskEnd(t.task, result, err)
			}

			results[t.index] = Result[R]{Value: result, Error: err, Index: t.index}
			if err != nil && !wp.continueOnError {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processWithRecovery executes a task with panic recovery.
// If a panic occurs, it's converted to an error to prevent crashing the worker.
// A value the task returned before panicking is not available.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}
