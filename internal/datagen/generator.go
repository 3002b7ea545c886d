// Package datagen produces reproducible pseudorandom datasets for the
// benchmark workloads: integer arrays, synthetic event records and random
// directed graphs.
//
// A Generator holds only its seed. Every dataset is drawn from a fresh PCG
// stream derived from that seed, so two calls with the same arguments return
// identical data and a single Generator can be shared by any number of
// goroutines without synchronization.
package datagen

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
)

// DefaultSeed is the seed used by the benchmark runner unless overridden.
const DefaultSeed int64 = 42

// Stream identifiers keep each dataset kind on its own PCG sequence.
const (
	streamInts uint64 = iota + 1
	streamEvents
	streamGraph
	streamRuntime
)

// Generator produces deterministic datasets from a fixed seed.
type Generator struct {
	seed int64
}

// New returns a Generator for the given seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

func (g *Generator) source(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(g.seed), stream))
}

// Rand returns a new random source for workload-owned runtime draws
// (query keys, access patterns, eviction coin flips). Each call returns an
// independent *rand.Rand that starts at the same point, so every workload
// instance replays the same access sequence. The returned value is not safe
// for concurrent use and must stay with the instance that requested it.
func (g *Generator) Rand(salt uint64) *rand.Rand {
	return g.source(streamRuntime<<32 | salt)
}

// IntArray returns size integers drawn uniformly from [0, bound).
func (g *Generator) IntArray(size int, bound int32) []int32 {
	if size <= 0 {
		return []int32{}
	}
	if bound <= 0 {
		bound = math.MaxInt32
	}

	rng := g.source(streamInts)
	arr := make([]int32, size)
	for i := range arr {
		arr[i] = rng.Int32N(bound)
	}
	return arr
}

// SequentialKeys returns the keys [0, size).
func (g *Generator) SequentialKeys(size int) []int {
	keys := make([]int, max(size, 0))
	for i := range keys {
		keys[i] = i
	}
	return keys
}

// DirectedEdges returns the adjacency lists of a random directed graph over
// the nodes [0, nodes). Each node draws max(1, round(N(0,1)*avg/3 + avg))
// uniform targets; self-loops and duplicate targets are dropped, so the
// resulting out-degree may be lower than the draw. Targets keep the order in
// which they were first drawn.
func (g *Generator) DirectedEdges(nodes, avgOutDegree int) [][]int32 {
	if nodes <= 0 {
		return [][]int32{}
	}

	rng := g.source(streamGraph)
	avg := float64(avgOutDegree)
	adj := make([][]int32, nodes)

	for i := range nodes {
		out := max(1, int(math.Floor(rng.NormFloat64()*avg/3.0+avg+0.5)))
		targets := make([]int32, 0, out)
		for range out {
			t := rng.Int32N(int32(nodes))
			if int(t) == i || slices.Contains(targets, t) {
				continue
			}
			targets = append(targets, t)
		}
		adj[i] = targets
	}
	return adj
}

func categoryLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "C" + strconv.Itoa(i)
	}
	return labels
}
