// Package bench defines the contract between the benchmark runner and the
// workloads it measures: the read-only Context, the Workload lifecycle and
// the Registry that resolves workload names.
package bench

import (
	"fmt"

	"github.com/utkarsh5026/cpubench/internal/datagen"
)

// Context is the immutable configuration shared by every workload instance of
// a run. It is built once by the runner and only read afterwards.
type Context struct {
	dataSize   int
	iterations int
	threads    int
	gen        *datagen.Generator
}

// NewContext validates the parameters and returns a Context. A nil generator
// is replaced by one seeded with datagen.DefaultSeed.
func NewContext(dataSize, iterations, threads int, gen *datagen.Generator) (*Context, error) {
	if dataSize <= 0 {
		return nil, fmt.Errorf("dataSize must be positive, got %d", dataSize)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}
	if threads <= 0 {
		return nil, fmt.Errorf("threads must be positive, got %d", threads)
	}
	if gen == nil {
		gen = datagen.New(datagen.DefaultSeed)
	}
	return &Context{
		dataSize:   dataSize,
		iterations: iterations,
		threads:    threads,
		gen:        gen,
	}, nil
}

// DataSize is the logical dataset size each workload is built for.
func (c *Context) DataSize() int { return c.dataSize }

// Iterations is the measured iteration count per thread.
func (c *Context) Iterations() int { return c.iterations }

// Threads is the number of concurrently measured workload instances.
func (c *Context) Threads() int { return c.threads }

// Generator returns the seeded dataset generator.
func (c *Context) Generator() *datagen.Generator { return c.gen }
