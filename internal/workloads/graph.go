package workloads

import (
	"fmt"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/graph"
)

const (
	minGraphNodes     = 1000
	graphNodeDivisor  = 50
	graphAvgOutDegree = 6
)

// GraphStats are the traversal results of one iteration.
type GraphStats struct {
	BFS        [3]int
	TopoCount  int
	CycleRoots int
}

// GraphTraversal runs breadth-first search from three fixed nodes, Kahn's
// topological count and three-colour cycle detection over one static graph.
type GraphTraversal struct {
	g    *graph.Digraph
	last GraphStats
	sink int64
}

// NewGraphTraversal returns an empty graph workload.
func NewGraphTraversal() *GraphTraversal {
	return &GraphTraversal{}
}

// GraphNodeCount returns the number of nodes generated for dataSize.
func GraphNodeCount(dataSize int) int {
	return max(minGraphNodes, dataSize/graphNodeDivisor)
}

func (w *GraphTraversal) Setup(bc *bench.Context) error {
	adj := bc.Generator().DirectedEdges(GraphNodeCount(bc.DataSize()), graphAvgOutDegree)
	g, err := graph.New(adj)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	w.g = g
	return nil
}

func (w *GraphTraversal) RunIteration(bc *bench.Context, iteration int) error {
	if w.g == nil {
		return ErrNotSetUp
	}

	n := w.g.NodeCount()
	var stats GraphStats
	for i, start := range [3]int{0, n / 3, 2 * n / 3} {
		stats.BFS[i] = w.g.BFSCount(start)
	}
	stats.TopoCount = w.g.TopoCount()
	stats.CycleRoots = w.g.CycleRoots()

	w.last = stats
	w.sink += int64(stats.BFS[0] + stats.BFS[1] + stats.BFS[2] + stats.TopoCount + stats.CycleRoots)
	return nil
}

// Graph returns the graph built by Setup.
func (w *GraphTraversal) Graph() *graph.Digraph { return w.g }

// LastStats returns the results of the most recent iteration.
func (w *GraphTraversal) LastStats() GraphStats { return w.last }

// Sink returns the accumulated checksum of all iterations.
func (w *GraphTraversal) Sink() int64 { return w.sink }

func (w *GraphTraversal) Teardown(bc *bench.Context) error {
	w.g = nil
	return nil
}
