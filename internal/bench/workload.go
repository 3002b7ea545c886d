package bench

// Workload is one unit of benchmarked work. An instance is owned by exactly
// one goroutine from Setup through Teardown and never shared.
type Workload interface {
	// Setup allocates and populates the instance's private state. Any error
	// aborts the run before measurement.
	Setup(bc *Context) error

	// RunIteration performs one unit of measured work. It may only touch
	// state owned by the instance.
	RunIteration(bc *Context, iteration int) error

	// Teardown releases the instance's state. Errors are logged by the
	// runner and never affect the result.
	Teardown(bc *Context) error
}
