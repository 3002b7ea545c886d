// Package workloads implements the benchmarked workloads: event aggregation,
// graph traversal, approximate membership, approximate eviction caching and
// immutable snapshots.
package workloads

import "errors"

// ErrNotSetUp is returned by RunIteration when Setup has not completed.
var ErrNotSetUp = errors.New("workload used before setup")

// Runtime random streams, one per workload that draws at run time.
const (
	saltBloom uint64 = iota + 1
	saltCache
)
