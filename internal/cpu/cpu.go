// Package cpu locks worker goroutines to OS threads and pins them to cores.
package cpu

import "runtime"

// coreFor maps a worker ID onto a valid core index.
func coreFor(workerID int) int {
	numCPU := runtime.NumCPU()
	id := workerID % numCPU
	if id < 0 {
		id += numCPU
	}
	return id
}
