package scheduler

import (
	"container/heap"
	"fmt"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// Node is a graph vertex with a stable id and a display name used in
// cycle reports.
type Node struct {
	ID   string
	Name string
}

// Edge points from a dependency to the node that depends on it.
type Edge struct {
	From string
	To   string
}

// Graph is an adjacency list over nodes stored by canonical index. The
// canonical index is the position of the node in the slice passed to
// NewGraph, and it decides tie order in TopoSort.
type Graph struct {
	nodes []Node
	index map[string]int
	out   [][]int
	in    [][]int
	seen  map[[2]int]struct{}
}

// NewGraph creates an edgeless graph. Duplicate ids keep their first position.
func NewGraph(nodes []Node) *Graph {
	g := &Graph{
		index: make(map[string]int, len(nodes)),
		seen:  make(map[[2]int]struct{}),
	}
	for _, n := range nodes {
		if _, ok := g.index[n.ID]; ok {
			continue
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	g.out = make([][]int, len(g.nodes))
	g.in = make([][]int, len(g.nodes))
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// AddEdge adds from -> to. Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) error {
	fi, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownNode, from)
	}
	ti, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownNode, to)
	}
	key := [2]int{fi, ti}
	if _, dup := g.seen[key]; dup {
		return nil
	}
	g.seen[key] = struct{}{}
	g.out[fi] = append(g.out[fi], ti)
	g.in[ti] = append(g.in[ti], fi)
	return nil
}

// Predecessors returns the ids of every node with an edge into id.
func (g *Graph) Predecessors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(g.in[i]))
	for _, p := range g.in[i] {
		ids = append(ids, g.nodes[p].ID)
	}
	return ids
}

// Successors returns the ids of every node id has an edge into.
func (g *Graph) Successors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(g.out[i]))
	for _, s := range g.out[i] {
		ids = append(ids, g.nodes[s].ID)
	}
	return ids
}

// TopoSort runs Kahn's algorithm. Among ready nodes the lowest canonical
// index is removed first, so the order is deterministic.
//
// When the graph has a cycle, order holds every node that could be removed
// and the returned *domain.CycleError names the nodes left with residual
// in-degree, in canonical order.
func (g *Graph) TopoSort() ([]string, error) {
	inDegree := make([]int, len(g.nodes))
	for i := range g.nodes {
		inDegree[i] = len(g.in[i])
	}

	ready := &intMinHeap{}
	for i, d := range inDegree {
		if d == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		order = append(order, g.nodes[u].ID)
		for _, v := range g.out[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}

	cyc := &domain.CycleError{}
	for i, d := range inDegree {
		if d > 0 {
			cyc.IDs = append(cyc.IDs, g.nodes[i].ID)
			cyc.Names = append(cyc.Names, g.nodes[i].Name)
		}
	}
	return order, cyc
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
