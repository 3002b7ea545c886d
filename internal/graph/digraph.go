// Package graph holds a static directed graph and the traversals the graph
// workload measures: multi-source breadth-first search, Kahn topological
// ordering and three-colour cycle detection.
package graph

import (
	"errors"
	"fmt"
)

// ErrEdgeOutOfRange is returned when an adjacency list references a node
// outside [0, nodeCount).
var ErrEdgeOutOfRange = errors.New("graph: edge target out of range")

// Digraph is a directed graph over the nodes [0, NodeCount()). It is
// read-only after construction and therefore safe to traverse from several
// goroutines, although the workload gives each worker its own copy.
type Digraph struct {
	adj   [][]int32
	edges int
}

// New builds a Digraph from per-node successor lists. The lists are copied.
func New(adj [][]int32) (*Digraph, error) {
	n := len(adj)
	g := &Digraph{adj: make([][]int32, n)}

	for from, targets := range adj {
		succ := make([]int32, len(targets))
		for i, to := range targets {
			if to < 0 || int(to) >= n {
				return nil, fmt.Errorf("%w: %d -> %d (nodes=%d)", ErrEdgeOutOfRange, from, to, n)
			}
			succ[i] = to
		}
		g.adj[from] = succ
		g.edges += len(succ)
	}
	return g, nil
}

// NodeCount returns the number of nodes.
func (g *Digraph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of directed edges.
func (g *Digraph) EdgeCount() int {
	return g.edges
}

// Successors returns the out-neighbours of v. The slice must not be modified.
func (g *Digraph) Successors(v int) []int32 {
	return g.adj[v]
}
