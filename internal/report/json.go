package report

import (
	"fmt"
	"io"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"github.com/utkarsh5026/cpubench/internal/runner"
)

// JSONThread is the serialized form of a runner.ThreadResult.
type JSONThread struct {
	Index          int     `json:"index"`
	Completed      int     `json:"completed"`
	ElapsedNanos   int64   `json:"elapsed_ns"`
	ElapsedStr     string  `json:"elapsed"`
	IterPerSecond  float64 `json:"iterations_per_second"`
	MeanLatencyStr string  `json:"mean_latency"`
	Error          string  `json:"error,omitempty"`
}

// JSONResult is the serialized form of a runner.Result.
type JSONResult struct {
	RunID           string       `json:"run_id"`
	Workload        string       `json:"workload"`
	DataSize        int          `json:"data_size"`
	Iterations      int          `json:"iterations_per_thread"`
	Threads         int          `json:"threads"`
	Warmup          int          `json:"warmup_iterations"`
	Seed            int64        `json:"seed"`
	StartedAt       time.Time    `json:"started_at"`
	ElapsedSeconds  float64      `json:"elapsed_seconds"`
	TotalIterations int64        `json:"total_iterations"`
	IterPerSecond   float64      `json:"iterations_per_second"`
	PerThread       []JSONThread `json:"per_thread"`
	Error           string       `json:"error,omitempty"`
}

// NewJSONResult converts res and the run error, if any, for serialization.
func NewJSONResult(res *runner.Result, runErr error) JSONResult {
	out := JSONResult{
		RunID:           res.RunID,
		Workload:        res.Workload,
		DataSize:        res.DataSize,
		Iterations:      res.Iterations,
		Threads:         res.Threads,
		Warmup:          res.Warmup,
		Seed:            res.Seed,
		StartedAt:       res.StartedAt,
		ElapsedSeconds:  res.Elapsed.Seconds(),
		TotalIterations: res.TotalIterations,
		IterPerSecond:   res.Throughput(),
		PerThread:       make([]JSONThread, 0, len(res.PerThread)),
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}

	for _, t := range res.PerThread {
		jt := JSONThread{
			Index:          t.Index,
			Completed:      t.Completed,
			ElapsedNanos:   t.Elapsed.Nanoseconds(),
			ElapsedStr:     FormatLatency(t.Elapsed),
			IterPerSecond:  t.Throughput(),
			MeanLatencyStr: FormatLatency(t.MeanLatency()),
		}
		if t.Err != nil {
			jt.Error = t.Err.Error()
		}
		out.PerThread = append(out.PerThread, jt)
	}
	return out
}

// SerializeToJSON converts a run to indented JSON bytes.
func SerializeToJSON(res *runner.Result, runErr error) ([]byte, error) {
	return sonnet.MarshalIndent(NewJSONResult(res, runErr), "", "  ")
}

// WriteJSON writes the JSON document for a run followed by a newline.
func WriteJSON(w io.Writer, res *runner.Result, runErr error) error {
	data, err := SerializeToJSON(res, runErr)
	if err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
