package ddl

import "fmt"

// TableEdge is a directed table-level reference: Source has a foreign key
// into Target.
type TableEdge struct {
	Source string
	Target string
}

func (e TableEdge) String() string { return fmt.Sprintf("%s -> %s", e.Source, e.Target) }

// Graph is the table reference graph. Nodes keep insertion order and each
// adjacency list keeps first-insertion order, so every walk is
// deterministic.
type Graph struct {
	nodes []string
	index map[string]int
	adj   [][]int
	has   map[[2]int]bool
}

// NewGraph returns a graph with one node per table name. Duplicate names are
// ignored.
func NewGraph(tables []string) *Graph {
	g := &Graph{
		index: make(map[string]int, len(tables)),
		has:   make(map[[2]int]bool),
	}
	for _, t := range tables {
		if _, ok := g.index[t]; ok {
			continue
		}
		g.index[t] = len(g.nodes)
		g.nodes = append(g.nodes, t)
		g.adj = append(g.adj, nil)
	}
	return g
}

// AddEdge adds source -> target. Parallel edges collapse into one. It
// returns false when either table is not a node.
func (g *Graph) AddEdge(source, target string) bool {
	s, ok := g.index[source]
	if !ok {
		return false
	}
	t, ok := g.index[target]
	if !ok {
		return false
	}
	k := [2]int{s, t}
	if !g.has[k] {
		g.has[k] = true
		g.adj[s] = append(g.adj[s], t)
	}
	return true
}

// Cycles enumerates simple cycles, each exactly once, as node sequences
// starting at the cycle's lowest-index node. A self reference is a cycle of
// length one. Enumeration stops after limit cycles (limit <= 0 means no
// limit); complete is false when it stopped early.
//
// The walk follows Johnson's circuit search: from each start it only visits
// the start's strongly connected component among nodes with a higher index,
// and blocked nodes are not re-entered until a cycle passes through them.
// Work is O((nodes+edges) * (cycles+1)).
func (g *Graph) Cycles(limit int) (cycles [][]string, complete bool) {
	n := len(g.nodes)
	radj := make([][]int, n)
	for v, ws := range g.adj {
		for _, w := range ws {
			radj[w] = append(radj[w], v)
		}
	}

	var (
		path    []int
		inComp  = make([]bool, n)
		blocked = make([]bool, n)
		blockBy = make([]map[int]bool, n)
		full    bool
	)

	var unblock func(u int)
	unblock = func(u int) {
		blocked[u] = false
		for w := range blockBy[u] {
			delete(blockBy[u], w)
			if blocked[w] {
				unblock(w)
			}
		}
	}

	var circuit func(start, v int) bool
	circuit = func(start, v int) bool {
		found := false
		path = append(path, v)
		blocked[v] = true
		for _, w := range g.adj[v] {
			if full {
				break
			}
			if !inComp[w] {
				continue
			}
			if w == start {
				c := make([]string, len(path))
				for i, x := range path {
					c[i] = g.nodes[x]
				}
				cycles = append(cycles, c)
				found = true
				if limit > 0 && len(cycles) >= limit {
					full = true
				}
			} else if !blocked[w] && circuit(start, w) {
				found = true
			}
		}
		if found {
			unblock(v)
		} else {
			for _, w := range g.adj[v] {
				if inComp[w] {
					if blockBy[w] == nil {
						blockBy[w] = make(map[int]bool)
					}
					blockBy[w][v] = true
				}
			}
		}
		path = path[:len(path)-1]
		return found
	}

	for s := 0; s < n && !full; s++ {
		size := g.component(s, radj, inComp)
		if size == 1 && !g.has[[2]int{s, s}] {
			inComp[s] = false
			continue
		}
		for v := s; v < n; v++ {
			if inComp[v] {
				blocked[v] = false
				blockBy[v] = nil
			}
		}
		circuit(s, s)
		for v := s; v < n; v++ {
			inComp[v] = false
		}
	}
	return cycles, !full
}

// component marks in comp the nodes with index >= s that s reaches and
// that reach s, i.e. the strongly connected component of s in the subgraph
// induced by those nodes, and returns its size.
func (g *Graph) component(s int, radj [][]int, comp []bool) int {
	fwd := map[int]bool{}
	for _, v := range g.reachList(s, g.adj) {
		fwd[v] = true
	}
	size := 0
	for _, v := range g.reachList(s, radj) {
		if fwd[v] {
			comp[v] = true
			size++
		}
	}
	return size
}

// reachList returns the nodes with index >= s reachable from s over adj,
// in BFS order.
func (g *Graph) reachList(s int, adj [][]int) []int {
	seen := map[int]bool{s: true}
	order := []int{s}
	for i := 0; i < len(order); i++ {
		for _, w := range adj[order[i]] {
			if w >= s && !seen[w] {
				seen[w] = true
				order = append(order, w)
			}
		}
	}
	return order
}

// BreakCycles removes one edge per simple cycle and returns the removed
// edges in removal order. For each enumerated cycle, if none of its edges
// has been removed yet, the first edge of the walk (root -> next) is
// removed. When enumeration hits maxCycles, any cycle still left is broken
// by removing DFS back edges, so the remaining graph is always acyclic.
func (g *Graph) BreakCycles(maxCycles int) []TableEdge {
	cycles, complete := g.Cycles(maxCycles)

	var removed []TableEdge
	for _, c := range cycles {
		if g.cycleBroken(c) {
			continue
		}
		e := TableEdge{Source: c[0], Target: c[1%len(c)]}
		g.remove(e)
		removed = append(removed, e)
	}
	if !complete {
		removed = append(removed, g.removeBackEdges()...)
	}
	return removed
}

// HasCycle reports whether any cycle remains.
func (g *Graph) HasCycle() bool {
	state := make([]int8, len(g.nodes)) // 0 new, 1 on stack, 2 done
	var visit func(v int) bool
	visit = func(v int) bool {
		state[v] = 1
		for _, w := range g.adj[v] {
			if state[w] == 1 {
				return true
			}
			if state[w] == 0 && visit(w) {
				return true
			}
		}
		state[v] = 2
		return false
	}
	for v := range g.nodes {
		if state[v] == 0 && visit(v) {
			return true
		}
	}
	return false
}

// Contains reports whether source -> target is still present.
func (g *Graph) Contains(source, target string) bool {
	s, ok1 := g.index[source]
	t, ok2 := g.index[target]
	return ok1 && ok2 && g.has[[2]int{s, t}]
}

func (g *Graph) cycleBroken(c []string) bool {
	for i := range c {
		if !g.Contains(c[i], c[(i+1)%len(c)]) {
			return true
		}
	}
	return false
}

func (g *Graph) remove(e TableEdge) {
	s, t := g.index[e.Source], g.index[e.Target]
	k := [2]int{s, t}
	if !g.has[k] {
		return
	}
	delete(g.has, k)
	out := g.adj[s][:0]
	for _, w := range g.adj[s] {
		if w != t {
			out = append(out, w)
		}
	}
	g.adj[s] = out
}

// removeBackEdges deletes every back edge of a DFS in node order. A graph
// without back edges is acyclic.
func (g *Graph) removeBackEdges() []TableEdge {
	state := make([]int8, len(g.nodes))
	var back []TableEdge
	var visit func(v int)
	visit = func(v int) {
		state[v] = 1
		for _, w := range g.adj[v] {
			switch state[w] {
			case 0:
				visit(w)
			case 1:
				back = append(back, TableEdge{Source: g.nodes[v], Target: g.nodes[w]})
			}
		}
		state[v] = 2
	}
	for v := range g.nodes {
		if state[v] == 0 {
			visit(v)
		}
	}
	for _, e := range back {
		g.remove(e)
	}
	return back
}
