package pool

import "fmt"

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount     int
	taskBuffer      int
	continueOnError bool
	lockThreads     bool
	pinThreads      bool

	beforeTaskStart     func(any)
	beforeTaskStartType string
	onTaskEnd           func(any, any, error)
	onTaskEndTaskType   string
	onTaskEndResultType string
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the buffer size for the task channel.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithContinueOnError controls what happens when a task fails. When false
// (the default) the first error cancels the remaining work. When true every
// task is executed regardless of earlier failures and errors are only
// reported once all workers have finished.
func WithContinueOnError(continueOnError bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.continueOnError = continueOnError
	}
}

// WithThreadLocking locks every worker goroutine to its own OS thread for
// the worker's lifetime. When pin is true each thread is additionally pinned
// to CPU core (workerID mod NumCPU) where the platform supports it.
func WithThreadLocking(pin bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.lockThreads = true
		cfg.pinThreads = pin
	}
}

// WithBeforeTaskStart registers a hook invoked on the worker goroutine right
// before a task starts. The hook's task type must match the pool's task type,
// otherwise NewWorkerPool panics.
func WithBeforeTaskStart[T any](fn func(T)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn == nil {
			return
		}
		var zero T
		cfg.beforeTaskStartType = fmt.Sprintf("%T", zero)
		cfg.beforeTaskStart = func(task any) {
			fn(task.(T))
		}
	}
}

// WithOnTaskEnd registers a hook invoked on the worker goroutine after a
// task finishes, successfully or not. The hook's task and result types must
// match the pool's, otherwise NewWorkerPool panics.
//
// Hooks run concurrently from several workers; any state they touch must be
// synchronized by the caller.
func WithOnTaskEnd[T any, R any](fn func(T, R, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn == nil {
			return
		}
		var zeroT T
		var zeroR R
		cfg.onTaskEndTaskType = fmt.Sprintf("%T", zeroT)
		cfg.onTaskEndResultType = fmt.Sprintf("%T", zeroR)
		cfg.onTaskEnd = func(task any, result any, err error) {
			fn(task.(T), result.(R), err)
		}
	}
}
