package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/utkarsh5026/cpubench/pool"
)

// =============================================================================
// Pool Benchmarks - scheduling overhead around the measured phase
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) func(ctx context.Context, task int) (int, error) {
	return func(ctx context.Context, task int) (int, error) {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * task
		}
		return result, nil
	}
}

func makeTasks(n int) []int {
	tasks := make([]int, n)
	for i := range tasks {
		tasks[i] = i
	}
	return tasks
}

func BenchmarkPool_WorkerScaling(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8, 16}
	taskCount := 10000

	for _, workers := range workerCounts {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			processFunc := cpuBoundWork(100)
			tasks := makeTasks(taskCount)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				wp := pool.NewWorkerPool[int, int](pool.WithWorkerCount(workers))
				if _, err := wp.Process(context.Background(), tasks, processFunc); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			tasksPerSec := (float64(taskCount) / nsPerOp) * 1e9
			b.ReportMetric(tasksPerSec, "tasks/sec")
			b.ReportMetric(tasksPerSec/float64(workers), "tasks/sec/worker")
		})
	}
}

func BenchmarkPool_ThreadLocking(b *testing.B) {
	const workers = 4
	cases := []struct {
		name string
		opts []pool.WorkerPoolOption
	}{
		{name: "unlocked"},
		{name: "locked", opts: []pool.WorkerPoolOption{pool.WithThreadLocking(false)}},
		{name: "pinned", opts: []pool.WorkerPoolOption{pool.WithThreadLocking(true)}},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			opts := append([]pool.WorkerPoolOption{pool.WithWorkerCount(workers)}, tc.opts...)
			tasks := makeTasks(workers)
			processFunc := cpuBoundWork(100_000)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				wp := pool.NewWorkerPool[int, int](opts...)
				if _, err := wp.Process(context.Background(), tasks, processFunc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPool_ProcessResultsContinueOnError(b *testing.B) {
	const taskCount = 1000
	tasks := makeTasks(taskCount)
	failOdd := func(ctx context.Context, task int) (int, error) {
		if task%2 == 1 {
			return task, fmt.Errorf("task %d failed", task)
		}
		return task, nil
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wp := pool.NewWorkerPool[int, int](pool.WithWorkerCount(8), pool.WithContinueOnError(true))
		results := wp.ProcessResults(context.Background(), tasks, failOdd)
		if len(results) != taskCount {
			b.Fatalf("expected %d results, got %d", taskCount, len(results))
		}
	}
}
