// Package graph holds the trail multigraph, the builder that overlays validated
// traversals on a trail's default graph, and the best-path search used to
// decide how much of a trail a hiker has completed.
//
// Nodes are checkpoint ids. Edges are directed from a segment's start
// checkpoint to its end checkpoint and may be parallel: the same pair can be
// joined by a default edge and by several evidenced traversals.
package graph

import (
	"sort"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Edge is one traversal between two checkpoints together with its cost.
type Edge struct {
	From      string
	To        string
	Traversal domain.Traversal
	Weight    float64
}

// MultiGraph is an adjacency structure keyed by checkpoint id.
// Edges keep their insertion order, which makes every search over the graph
// deterministic.
type MultiGraph struct {
	adj   map[string][]Edge
	nodes map[string]struct{}
	edges int
}

// New returns an empty graph.
func New() *MultiGraph {
	return &MultiGraph{
		adj:   make(map[string][]Edge),
		nodes: make(map[string]struct{}),
	}
}

// AddEdge inserts t as an edge from its segment start to its segment end.
func (g *MultiGraph) AddEdge(t domain.Traversal, weight float64) {
	from, to := t.From(), t.To()
	g.adj[from] = append(g.adj[from], Edge{From: from, To: to, Traversal: t, Weight: weight})
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	g.edges++
}

// RemoveEdges deletes every edge of the given kind from -> to and returns how
// many were removed.
func (g *MultiGraph) RemoveEdges(from, to string, kind domain.TraversalKind) int {
	edges := g.adj[from]
	kept := edges[:0:0]
	for _, e := range edges {
		if e.To == to && e.Traversal.Kind == kind {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(edges) - len(kept)
	g.adj[from] = kept
	g.edges -= removed
	return removed
}

// Out returns the edges leaving node in insertion order. The slice must not be
// modified.
func (g *MultiGraph) Out(node string) []Edge {
	return g.adj[node]
}

// HasNode reports whether node is an endpoint of any edge.
func (g *MultiGraph) HasNode(node string) bool {
	_, ok := g.nodes[node]
	return ok
}

// Nodes returns every node id in lexical order.
func (g *MultiGraph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the number of edges, parallel edges included.
func (g *MultiGraph) EdgeCount() int {
	return g.edges
}

// Edges returns every edge grouped by source node in lexical order.
func (g *MultiGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, n := range g.Nodes() {
		out = append(out, g.adj[n]...)
	}
	return out
}

// Clone returns a copy that can be modified without affecting g.
// Traversals are values, so a shallow copy of each edge list suffices.
func (g *MultiGraph) Clone() *MultiGraph {
	c := &MultiGraph{
		adj:   make(map[string][]Edge, len(g.adj)),
		nodes: make(map[string]struct{}, len(g.nodes)),
		edges: g.edges,
	}
	for k, v := range g.adj {
		c.adj[k] = append([]Edge(nil), v...)
	}
	for k := range g.nodes {
		c.nodes[k] = struct{}{}
	}
	return c
}
