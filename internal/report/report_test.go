package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/runner"
)

func init() {
	color.NoColor = true
}

func sampleResult() *runner.Result {
	return &runner.Result{
		RunID:           "run-1",
		Workload:        "graph",
		DataSize:        1000,
		Iterations:      10,
		Threads:         2,
		Warmup:          1,
		Seed:            42,
		Elapsed:         1500 * time.Millisecond,
		TotalIterations: 15,
		PerThread: []runner.ThreadResult{
			{Index: 0, Completed: 10, Elapsed: time.Second},
			{Index: 1, Completed: 5, Elapsed: 500 * time.Millisecond, Err: errors.New("boom")},
		},
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
		100000:   "100,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in))
	}
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "0", FormatLatency(0))
	assert.Equal(t, "250ns", FormatLatency(250*time.Nanosecond))
	assert.Equal(t, "3µs", FormatLatency(3*time.Microsecond))
	assert.Equal(t, "1.5µs", FormatLatency(1500*time.Nanosecond))
	assert.Equal(t, "12ms", FormatLatency(12*time.Millisecond))
	assert.Equal(t, "2.50s", FormatLatency(2500*time.Millisecond))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1.2346", FormatSeconds(1234567*time.Microsecond))
	assert.Equal(t, "0.0000", FormatSeconds(0))
}

func TestPrinter_RunLines(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	cfg := runner.Config{Workload: "event", DataSize: 200000, Iterations: 100000, Threads: 4, Warmup: 5}
	p.Header(cfg)
	observe := p.StateObserver(cfg)
	observe(runner.StateInstantiating, runner.StateWarmup)
	observe(runner.StateWarmup, runner.StateMeasuring)
	p.Elapsed(1234567 * time.Microsecond)

	want := strings.Join([]string{
		"[INFO] Workload=event dataSize=200000 iterations/thread=100000 threads=4",
		"[INFO] Warmup: 5 iterations",
		"[INFO] Warmup complete.",
		"[INFO] Starting benchmark...",
		"[RESULT] Total elapsed time: 1.2346 s",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
	assert.Empty(t, errOut.String())
}

func TestPrinter_NoWarmup(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{})

	p.WarmupDisabled()
	p.StateObserver(runner.Config{})(runner.StateInstantiating, runner.StateMeasuring)

	assert.Equal(t, "[INFO] Warmup disabled.\n[INFO] Starting benchmark...\n", out.String())
}

func TestPrinter_Result(t *testing.T) {
	var out, errOut bytes.Buffer
	NewPrinter(&out, &errOut).Result(sampleResult())

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "[RESULT]"))
	assert.Contains(t, text, "[RESULT] Total elapsed time: 1.5000 s")
	assert.Contains(t, text, "1/2 ok")
	assert.Contains(t, text, "failed")
	assert.Contains(t, errOut.String(), "thread 1 failed after 5 iterations: boom")
}

func TestPrinter_UnknownWorkload(t *testing.T) {
	var errOut bytes.Buffer
	NewPrinter(&bytes.Buffer{}, &errOut).UnknownWorkload("sort")
	assert.Equal(t, "Unknown workload: sort\n", errOut.String())
}

func TestDefaults(t *testing.T) {
	var buf bytes.Buffer
	Defaults(&buf, []bench.Spec{
		{Name: "event", DefaultDataSize: 200000, DefaultIterations: 100000},
		{Name: "cache", DefaultDataSize: 100000, DefaultIterations: 1000},
	})

	text := buf.String()
	assert.Contains(t, text, "  event: 200000 / 100000\n")
	assert.Contains(t, text, "  cache: 100000 / 1000\n")
	assert.Contains(t, text, "min(5, max(1, iterations/500))")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult(), errors.New("run failed")))

	var decoded JSONResult
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "graph", decoded.Workload)
	assert.Equal(t, int64(15), decoded.TotalIterations)
	assert.InDelta(t, 1.5, decoded.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 10.0, decoded.IterPerSecond, 1e-9)
	assert.Equal(t, "run failed", decoded.Error)

	require.Len(t, decoded.PerThread, 2)
	assert.Empty(t, decoded.PerThread[0].Error)
	assert.Equal(t, "boom", decoded.PerThread[1].Error)
	assert.Equal(t, "100ms", decoded.PerThread[0].MeanLatencyStr)
}
