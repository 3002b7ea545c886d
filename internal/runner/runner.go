// Package runner drives a benchmark run: it builds one workload instance per
// thread, optionally warms the first one up, measures all of them in
// parallel on a fixed-size worker pool, aggregates the counts and tears every
// instance down.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/datagen"
	"github.com/utkarsh5026/cpubench/pool"
)

var (
	// ErrSetup wraps failures while building workload instances.
	ErrSetup = errors.New("workload setup failed")
	// ErrIteration wraps the first failing iteration of a run.
	ErrIteration = errors.New("workload iteration failed")
	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("runner already used")
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStateObserver registers fn to be called synchronously on every state
// transition, from the goroutine that called Run.
func WithStateObserver(fn func(from, to State)) Option {
	return func(r *Runner) {
		r.onStateChange = fn
	}
}

// WithThreadObserver registers fn to be called once per measured thread as
// soon as it finishes. It runs on the worker goroutines and must be safe for
// concurrent use.
func WithThreadObserver(fn func(ThreadResult)) Option {
	return func(r *Runner) {
		r.onThreadDone = fn
	}
}

// Runner executes one benchmark run. It is single use.
type Runner struct {
	cfg    Config
	logger *slog.Logger

	onStateChange func(from, to State)
	onThreadDone  func(ThreadResult)

	state       atomic.Int32
	transitions []State
}

// New returns a Runner for a resolved Config.
func New(cfg Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:         cfg,
		logger:      slog.Default(),
		transitions: []State{StateConfiguring},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state. It is safe to call concurrently with Run.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Transitions returns every state the runner has entered, in order.
// Call it only after Run has returned.
func (r *Runner) Transitions() []State {
	return append([]State(nil), r.transitions...)
}

func (r *Runner) transition(to State) {
	from := r.State()
	if to <= from {
		panic(fmt.Sprintf("runner: illegal transition %s -> %s", from, to))
	}
	r.state.Store(int32(to))
	r.transitions = append(r.transitions, to)
	r.logger.Debug("runner state", "from", from.String(), "to", to.String())
	if r.onStateChange != nil {
		r.onStateChange(from, to)
	}
}

// Run executes the benchmark. Setup and warmup failures return a nil Result.
// Iteration failures return the Result together with an error wrapping
// ErrIteration and the failure of the lowest-indexed thread.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.State() != StateConfiguring {
		return nil, ErrAlreadyRun
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if r.cfg.Spec.New == nil {
		return nil, fmt.Errorf("%w: workload %q has no constructor", ErrInvalidConfig, r.cfg.Workload)
	}

	bc, err := bench.NewContext(r.cfg.DataSize, r.cfg.Iterations, r.cfg.Threads, datagen.New(r.cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	r.transition(StateInstantiating)
	instances, err := r.instantiate(bc)
	if err != nil {
		r.teardown(bc, instances)
		r.transition(StateTornDown)
		return nil, err
	}

	if r.cfg.Warmup > 0 {
		r.transition(StateWarmup)
		if err := r.warmup(bc, instances[0]); err != nil {
			r.teardown(bc, instances)
			r.transition(StateTornDown)
			return nil, err
		}
	}

	r.transition(StateMeasuring)
	startedAt := time.Now()
	threads, elapsed := r.measure(ctx, bc, instances)

	r.transition(StateAggregating)
	res := &Result{
		RunID:      uuid.NewString(),
		Workload:   r.cfg.Workload,
		DataSize:   r.cfg.DataSize,
		Iterations: r.cfg.Iterations,
		Threads:    r.cfg.Threads,
		Warmup:     r.cfg.Warmup,
		Seed:       r.cfg.Seed,
		StartedAt:  startedAt,
		Elapsed:    elapsed,
		PerThread:  threads,
	}
	var runErr error
	for _, t := range threads {
		res.TotalIterations += int64(t.Completed)
		if t.Err != nil && runErr == nil {
			runErr = fmt.Errorf("%w: thread %d after %d iterations: %w", ErrIteration, t.Index, t.Completed, t.Err)
		}
	}
	r.logger.Debug("measured phase finished",
		"elapsed", elapsed,
		"iterations", res.TotalIterations,
		"failed_threads", len(res.Failed()))

	r.teardown(bc, instances)
	r.transition(StateTornDown)
	return res, runErr
}

// instantiate builds and sets up one instance per thread. On failure it
// returns the instances that were set up successfully so they can be torn
// down.
func (r *Runner) instantiate(bc *bench.Context) ([]bench.Workload, error) {
	instances := make([]bench.Workload, 0, bc.Threads())
	for i := range bc.Threads() {
		w := r.cfg.Spec.New()
		if err := safeCall(func() error { return w.Setup(bc) }); err != nil {
			return instances, fmt.Errorf("%w: %s instance %d: %w", ErrSetup, r.cfg.Workload, i, err)
		}
		instances = append(instances, w)
		r.logger.Debug("instance ready", "workload", r.cfg.Workload, "index", i)
	}
	return instances, nil
}

func (r *Runner) warmup(bc *bench.Context, w bench.Workload) error {
	for i := range r.cfg.Warmup {
		if err := runIteration(w, bc, i); err != nil {
			return fmt.Errorf("%w: warmup iteration %d: %w", ErrIteration, i, err)
		}
	}
	return nil
}

// measure runs every instance for the configured iteration count, one pool
// task per thread. Failing threads never cancel the others.
func (r *Runner) measure(ctx context.Context, bc *bench.Context, instances []bench.Workload) ([]ThreadResult, time.Duration) {
	opts := []pool.WorkerPoolOption{
		pool.WithWorkerCount(len(instances)),
		pool.WithContinueOnError(true),
		pool.WithThreadLocking(r.cfg.Pin),
	}
	if r.onThreadDone != nil {
		opts = append(opts, pool.WithOnTaskEnd(func(_ int, t ThreadResult, _ error) {
			r.onThreadDone(t)
		}))
	}
	wp := pool.NewWorkerPool[int, ThreadResult](opts...)

	tasks := make([]int, len(instances))
	for i := range tasks {
		tasks[i] = i
	}

	start := time.Now()
	outcomes := wp.ProcessResults(ctx, tasks, func(ctx context.Context, idx int) (ThreadResult, error) {
		t := r.runThread(ctx, bc, idx, instances[idx])
		return t, t.Err
	})
	elapsed := time.Since(start)

	threads := make([]ThreadResult, len(outcomes))
	for i, o := range outcomes {
		t := o.Value
		t.Index = i
		if t.Err == nil && o.Error != nil {
			t.Err = o.Error
			if errors.Is(o.Error, pool.ErrTaskSkipped) && ctx.Err() != nil {
				t.Err = fmt.Errorf("%w: %w", o.Error, ctx.Err())
			}
		}
		threads[i] = t
	}
	return threads, elapsed
}

func (r *Runner) runThread(ctx context.Context, bc *bench.Context, idx int, w bench.Workload) ThreadResult {
	t := ThreadResult{Index: idx}

	var heartbeat *rate.Sometimes
	if r.cfg.Heartbeat > 0 {
		heartbeat = &rate.Sometimes{Interval: r.cfg.Heartbeat}
	}

	done := ctx.Done()
	start := time.Now()
	for i := range bc.Iterations() {
		select {
		case <-done:
			t.Err = ctx.Err()
			t.Elapsed = time.Since(start)
			return t
		default:
		}

		if err := runIteration(w, bc, i); err != nil {
			t.Err = fmt.Errorf("iteration %d: %w", i, err)
			break
		}
		t.Completed++

		if heartbeat != nil {
			heartbeat.Do(func() {
				r.logger.Info("progress",
					"thread", idx,
					"completed", t.Completed,
					"of", bc.Iterations(),
					"elapsed", time.Since(start).Round(time.Millisecond))
			})
		}
	}
	t.Elapsed = time.Since(start)
	return t
}

// teardown releases every instance. Failures and panics are logged and
// otherwise ignored.
func (r *Runner) teardown(bc *bench.Context, instances []bench.Workload) {
	for i, w := range instances {
		if err := safeCall(func() error { return w.Teardown(bc) }); err != nil {
			r.logger.Warn("teardown failed", "workload", r.cfg.Workload, "index", i, "error", err)
		}
	}
}

func runIteration(w bench.Workload, bc *bench.Context, iteration int) error {
	return safeCall(func() error { return w.RunIteration(bc, iteration) })
}

// safeCall converts a panic in fn into an error carrying the stack trace.
func safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("panic: %v\nstack trace:\n%s", p, buf[:n])
		}
	}()
	return fn()
}
