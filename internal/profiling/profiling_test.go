package profiling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_Disabled(t *testing.T) {
	stop, err := Start("", "", nil)
	require.NoError(t, err)
	stop()
}

func TestStart_WritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	stop, err := Start(cpu, mem, nil)
	require.NoError(t, err)
	stop()

	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestStart_BadPath(t *testing.T) {
	_, err := Start(filepath.Join(t.TempDir(), "missing", "cpu.pprof"), "", nil)
	assert.Error(t, err)
}
