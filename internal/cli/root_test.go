package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"github.com/utkarsh5026/cpubench/internal/report"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_Help(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		code, stdout, _ := execute(t, arg)
		assert.Equal(t, ExitOK, code)
		assert.Contains(t, stdout, usageLine)
		assert.Contains(t, stdout, "  event: 200000 / 100000")
		assert.Contains(t, stdout, "  graph: 400000 / 15000")
		assert.Contains(t, stdout, "  bloom: 400000 / 2000")
		assert.Contains(t, stdout, "  cache: 100000 / 1000")
		assert.Contains(t, stdout, "  immutable: 400000 / 32000")
		assert.NotContains(t, stdout, "[INFO]")
	}
}

func TestExecute_NoArgsPrintsUsage(t *testing.T) {
	code, stdout, _ := execute(t)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, usageLine)
	assert.NotContains(t, stdout, "[RESULT]")
}

func TestExecute_TextRun(t *testing.T) {
	code, stdout, stderr := execute(t,
		"--workload", "graph", "--dataSize", "1000", "--iterations", "2", "--threads", "2", "--warmupIterations", "1")
	require.Equal(t, ExitOK, code, stderr)

	lines := strings.Split(stdout, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "[INFO] Workload=graph dataSize=1000 iterations/thread=2 threads=2", lines[0])
	assert.Equal(t, "[INFO] Warmup: 1 iterations", lines[1])
	assert.Equal(t, "[INFO] Warmup complete.", lines[2])
	assert.Equal(t, "[INFO] Starting benchmark...", lines[3])
	assert.Regexp(t, `^\[RESULT\] Total elapsed time: \d+\.\d{4} s$`, lines[4])
	assert.Equal(t, 1, strings.Count(stdout, "[RESULT]"))
	assert.Contains(t, stdout, "2/2 ok")
}

func TestExecute_NoWarmup(t *testing.T) {
	code, stdout, stderr := execute(t, "--workload", "immutable", "--dataSize", "64", "--iterations", "3", "--noWarmup")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[INFO] Warmup disabled.\n[INFO] Starting benchmark...\n")
	assert.NotContains(t, stdout, "Warmup:")
}

func TestExecute_JSONRun(t *testing.T) {
	code, stdout, stderr := execute(t,
		"--workload", "cache", "--dataSize", "100", "--iterations", "10", "--threads", "2", "--output", "json", "--progress")
	require.Equal(t, ExitOK, code, stderr)
	assert.NotContains(t, stdout, "[INFO]")

	var res report.JSONResult
	require.NoError(t, sonnet.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "cache", res.Workload)
	assert.Equal(t, 100, res.DataSize)
	assert.Equal(t, int64(20), res.TotalIterations)
	assert.Equal(t, int64(42), res.Seed)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.PerThread, 2)
}

func TestExecute_UnknownWorkload(t *testing.T) {
	code, stdout, stderr := execute(t, "--workload", "nope")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "Unknown workload: nope")
	assert.Contains(t, stderr, usageLine)
	assert.NotContains(t, stdout, "[INFO]")
}

func TestExecute_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"malformed number", []string{"--threads", "many"}, "invalid argument"},
		{"unknown flag", []string{"--bogus"}, "unknown flag"},
		{"negative threads", []string{"--threads", "-1"}, "threads must be greater than 0"},
		{"negative iterations", []string{"--iterations", "-5"}, "iterations must be greater than 0"},
		{"zero dataSize", []string{"--workload", "graph", "--dataSize", "0"}, "dataSize must be greater than 0, got 0"},
		{"zero iterations", []string{"--iterations", "0"}, "iterations must be greater than 0, got 0"},
		{"zero threads", []string{"--threads", "0"}, "threads must be greater than 0, got 0"},
		{"bad output", []string{"--output", "xml"}, `output must be "text" or "json"`},
		{"bad log level", []string{"--log-level", "loud"}, "log-level"},
		{"positional argument", []string{"graph"}, "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, tt.want)
			assert.NotContains(t, stdout, "[RESULT]")
		})
	}
}

func TestExecute_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workload: bloom\ndataSize: 500\niterations: 4\nnoWarmup: true\n"), 0o600))

	code, stdout, stderr := execute(t, "--config", path, "--iterations", "2")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[INFO] Workload=bloom dataSize=500 iterations/thread=2 threads=1")
	assert.Contains(t, stdout, "[INFO] Warmup disabled.")
}

func TestExecute_MissingConfigFile(t *testing.T) {
	code, _, stderr := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "absent.yaml")
}
