package workloads

import "github.com/utkarsh5026/cpubench/internal/bench"

// Workload names accepted on the command line.
const (
	NameEvent     = "event"
	NameGraph     = "graph"
	NameBloom     = "bloom"
	NameCache     = "cache"
	NameImmutable = "immutable"
)

// Specs returns the built-in workloads with their default dataset size and
// per-thread iteration count.
func Specs() []bench.Spec {
	return []bench.Spec{
		{
			Name:              NameEvent,
			Description:       "sliding-window event aggregation with top-K users",
			DefaultDataSize:   200_000,
			DefaultIterations: 100_000,
			New:               func() bench.Workload { return NewEventAggregation() },
		},
		{
			Name:              NameGraph,
			Description:       "BFS, topological count and cycle detection on a random digraph",
			DefaultDataSize:   400_000,
			DefaultIterations: 15_000,
			New:               func() bench.Workload { return NewGraphTraversal() },
		},
		{
			Name:              NameBloom,
			Description:       "saturating Bloom filter with chained hashing",
			DefaultDataSize:   400_000,
			DefaultIterations: 2_000,
			New:               func() bench.Workload { return NewBloomMembership() },
		},
		{
			Name:              NameCache,
			Description:       "hot/cold cache with random approximate eviction",
			DefaultDataSize:   100_000,
			DefaultIterations: 1_000,
			New:               func() bench.Workload { return NewApproxCache() },
		},
		{
			Name:              NameImmutable,
			Description:       "immutable snapshot set algebra",
			DefaultDataSize:   400_000,
			DefaultIterations: 32_000,
			New:               func() bench.Workload { return NewImmutableSnapshot() },
		},
	}
}

// NewRegistry returns a registry of the built-in workloads.
func NewRegistry() *bench.Registry {
	r, err := bench.NewRegistry(Specs()...)
	if err != nil {
		panic(err)
	}
	return r
}
