package runner

import "time"

// ThreadResult is the outcome of one measured thread.
type ThreadResult struct {
	Index     int
	Completed int
	Elapsed   time.Duration
	Err       error
}

// MeanLatency is the average wall time of one completed iteration.
func (t ThreadResult) MeanLatency() time.Duration {
	if t.Completed == 0 {
		return 0
	}
	return t.Elapsed / time.Duration(t.Completed)
}

// Throughput returns completed iterations per second.
func (t ThreadResult) Throughput() float64 {
	return perSecond(int64(t.Completed), t.Elapsed)
}

// Result is the aggregate of a run. It is returned even when the measured
// phase failed, in which case the counts cover what was completed.
type Result struct {
	RunID      string
	Workload   string
	DataSize   int
	Iterations int
	Threads    int
	Warmup     int
	Seed       int64
	StartedAt  time.Time

	// Elapsed is the wall time of the measured phase only.
	Elapsed         time.Duration
	TotalIterations int64
	PerThread       []ThreadResult
}

// Throughput returns completed iterations per second across all threads.
func (r *Result) Throughput() float64 {
	return perSecond(r.TotalIterations, r.Elapsed)
}

// Failed returns the threads that stopped with an error.
func (r *Result) Failed() []ThreadResult {
	var failed []ThreadResult
	for _, t := range r.PerThread {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

func perSecond(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
