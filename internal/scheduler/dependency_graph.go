package scheduler

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// DependencyGraph holds the template-level dependency edges and guards
// every edge-set change with a full acyclicity check.
//
// DependencyGraph is not safe for concurrent use; callers serialize edits.
type DependencyGraph struct {
	nodes []Node
	known map[string]bool
	edges []Edge
}

// NewDependencyGraph builds a graph over nodes with the given committed
// edges. Node order is the canonical order used for deterministic sorting.
func NewDependencyGraph(nodes []Node, edges []Edge) *DependencyGraph {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	return &DependencyGraph{
		nodes: slices.Clone(nodes),
		known: known,
		edges: slices.Clone(edges),
	}
}

// Edges returns a copy of the committed edge set.
func (g *DependencyGraph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// DependenciesOf returns the ids itemID currently depends on.
func (g *DependencyGraph) DependenciesOf(itemID string) []string {
	var deps []string
	for _, e := range g.edges {
		if e.To == itemID {
			deps = append(deps, e.From)
		}
	}
	return deps
}

// SetDependencies replaces every edge into itemID with one edge per id in
// dependsOn. The candidate edge set is checked for the whole graph before
// anything is committed; on error the graph is unchanged.
//
// It returns the edges now pointing into itemID.
func (g *DependencyGraph) SetDependencies(itemID string, dependsOn []string) ([]Edge, error) {
	if !g.known[itemID] {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownNode, itemID)
	}

	proposed := make([]Edge, 0, len(dependsOn))
	dedup := make(map[string]bool, len(dependsOn))
	for _, dep := range dependsOn {
		if dep == itemID {
			return nil, fmt.Errorf("%w: %q cannot depend on itself", domain.ErrInvalidDependency, itemID)
		}
		if !g.known[dep] {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownNode, dep)
		}
		if dedup[dep] {
			continue
		}
		dedup[dep] = true
		proposed = append(proposed, Edge{From: dep, To: itemID})
	}

	candidate := make([]Edge, 0, len(g.edges)+len(proposed))
	for _, e := range g.edges {
		if e.To != itemID {
			candidate = append(candidate, e)
		}
	}
	candidate = append(candidate, proposed...)

	if _, err := TopoOrder(g.nodes, candidate); err != nil {
		return nil, err
	}

	g.edges = candidate
	return slices.Clone(proposed), nil
}

// Validate checks the committed edge set is acyclic.
func (g *DependencyGraph) Validate() error {
	_, err := TopoOrder(g.nodes, g.edges)
	return err
}

// TopoOrder builds a graph from nodes and edges and returns its
// topological order, or a *domain.CycleError naming the residual nodes.
func TopoOrder(nodes []Node, edges []Edge) ([]string, error) {
	graph := NewGraph(nodes)
	for _, e := range edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: %q cannot depend on itself", domain.ErrInvalidDependency, e.To)
		}
		if err := graph.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return graph.TopoSort()
}
