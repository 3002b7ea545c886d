// Package benchmarks holds Go benchmarks for the workloads, the worker pool
// and complete runner invocations. Run them with:
//
//	go test -bench=. -benchmem ./benchmarks
//
// murmur3 hashing trips checkptr under the race detector, so race runs need
// it disabled:
//
//	go test -race -gcflags=all=-d=checkptr=0 ./...
package benchmarks
