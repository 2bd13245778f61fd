package graph

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Path is an edge-by-edge route with its total cost.
type Path struct {
	Edges []Edge
	Cost  float64
}

// Traversals returns the traversal carried by each edge of the path in order.
func (p Path) Traversals() []domain.Traversal {
	out := make([]domain.Traversal, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = e.Traversal
	}
	return out
}

// BestPath returns the minimum-cost path from -> to. At every settled node only
// the cheapest parallel edge towards each neighbour is considered; among equal
// weights the earliest inserted edge wins. Each node is settled at most once
// and the search stops the first time the target is popped.
//
// Returns domain.ErrNoPathFound when to is unreachable.
func BestPath(g *MultiGraph, from, to string) (Path, error) {
	if from == to && g.HasNode(from) {
		return Path{}, nil
	}
	if !g.HasNode(from) || !g.HasNode(to) {
		return Path{}, fmt.Errorf("graph.BestPath: %s -> %s: %w", from, to, domain.ErrNoPathFound)
	}

	dist := map[string]float64{from: 0}
	via := make(map[string]Edge)
	settled := make(map[string]bool)

	pq := &queue{}
	seq := 0
	heap.Push(pq, &item{node: from, cost: 0, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*item)
		if settled[cur.node] {
			continue
		}
		settled[cur.node] = true

		if cur.node == to {
			return Path{Edges: unwind(via, from, to), Cost: cur.cost}, nil
		}

		for _, e := range cheapestPerNeighbour(g.Out(cur.node)) {
			if settled[e.To] {
				continue
			}
			next := cur.cost + e.Weight
			if d, seen := dist[e.To]; seen && d <= next {
				continue
			}
			dist[e.To] = next
			via[e.To] = e
			seq++
			heap.Push(pq, &item{node: e.To, cost: next, seq: seq})
		}
	}
	return Path{}, fmt.Errorf("graph.BestPath: %s -> %s: %w", from, to, domain.ErrNoPathFound)
}

// cheapestPerNeighbour keeps the minimum-weight edge for each distinct
// neighbour, returned in neighbour id order.
func cheapestPerNeighbour(edges []Edge) []Edge {
	best := make(map[string]Edge, len(edges))
	for _, e := range edges {
		if b, ok := best[e.To]; ok && b.Weight <= e.Weight {
			continue
		}
		best[e.To] = e
	}
	out := make([]Edge, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

func unwind(via map[string]Edge, from, to string) []Edge {
	var rev []Edge
	for n := to; n != from; {
		e := via[n]
		rev = append(rev, e)
		n = e.From
	}
	out := make([]Edge, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}

type item struct {
	node string
	cost float64
	seq  int
}

// queue orders by cost, then node id, then push order.
type queue []*item

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].node != q[j].node {
		return q[i].node < q[j].node
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*item)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
