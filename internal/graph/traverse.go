package graph

// BFSCount explores everything reachable from start and returns the number
// of edges traversed plus the number of nodes visited. An out-of-range start
// yields 0.
func (g *Digraph) BFSCount(start int) int {
	n := len(g.adj)
	if start < 0 || start >= n {
		return 0
	}

	visited := make([]bool, n)
	queue := make([]int32, 0, 64)
	queue = append(queue, int32(start))
	visited[start] = true
	visitedCount := 1
	edgesTraversed := 0

	for head := 0; head < len(queue); head++ {
		for _, next := range g.adj[queue[head]] {
			edgesTraversed++
			if !visited[next] {
				visited[next] = true
				visitedCount++
				queue = append(queue, next)
			}
		}
	}
	return edgesTraversed + visitedCount
}

// TopoCount runs Kahn's algorithm and returns how many nodes were ordered.
// The result equals NodeCount() exactly when the graph is acyclic.
func (g *Digraph) TopoCount() int {
	n := len(g.adj)
	indeg := make([]int32, n)
	for _, succ := range g.adj {
		for _, m := range succ {
			indeg[m]++
		}
	}

	queue := make([]int32, 0, n)
	for v, d := range indeg {
		if d == 0 {
			queue = append(queue, int32(v))
		}
	}

	count := 0
	for head := 0; head < len(queue); head++ {
		count++
		for _, next := range g.adj[queue[head]] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return count
}

const (
	white uint8 = iota
	gray
	black
)

type dfsFrame struct {
	node int32
	next int
}

// CycleRoots runs a three-colour depth-first search from every unvisited
// node in ascending order and returns how many of those roots reached a gray
// node, i.e. found a back edge.
//
// A search stops at its first back edge and leaves the nodes on its path
// gray. A later root that reaches one of them is counted as well, so the
// result is a load-scaling figure rather than the number of distinct cycles.
// It is positive exactly when the graph has a cycle.
//
// The search keeps an explicit stack, so its depth is bounded by the heap
// rather than the goroutine stack.
func (g *Digraph) CycleRoots() int {
	n := len(g.adj)
	state := make([]uint8, n)
	stack := make([]dfsFrame, 0, 64)
	roots := 0

	for root := range n {
		if state[root] != white {
			continue
		}
		var found bool
		stack, found = g.findBackEdge(int32(root), state, stack)
		if found {
			roots++
		}
	}
	return roots
}

// HasCycle reports whether the graph contains a directed cycle.
func (g *Digraph) HasCycle() bool {
	return g.CycleRoots() > 0
}

// findBackEdge performs one iterative DFS from root. The stack buffer is
// returned for reuse by the next root.
func (g *Digraph) findBackEdge(root int32, state []uint8, stack []dfsFrame) ([]dfsFrame, bool) {
	stack = append(stack[:0], dfsFrame{node: root})
	state[root] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := g.adj[top.node]

		if top.next < len(succ) {
			next := succ[top.next]
			top.next++
			switch state[next] {
			case gray:
				return stack, true
			case white:
				state[next] = gray
				stack = append(stack, dfsFrame{node: next})
			}
			continue
		}

		state[top.node] = black
		stack = stack[:len(stack)-1]
	}
	return stack, false
}
