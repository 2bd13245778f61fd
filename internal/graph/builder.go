package graph

import (
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Build overlays validated traversals on a trail's default graph. For each
// traversal the default edge between the same ordered checkpoint pair is
// dropped and the traversal is inserted with its own weight. Evidenced edges
// are never removed, so several may connect the same two checkpoints.
//
// base is not modified; a nil base is treated as an empty graph.
func Build(base *MultiGraph, validated []domain.Traversal, w Weights, now time.Time) *MultiGraph {
	var g *MultiGraph
	if base == nil {
		g = New()
	} else {
		g = base.Clone()
	}
	for _, t := range validated {
		g.RemoveEdges(t.From(), t.To(), domain.KindDefault)
		g.AddEdge(t, w.Weigh(t, now))
	}
	return g
}

// DefaultTraversal wraps a canonical segment as an unconfirmed edge with
// synthetic endpoints.
func DefaultTraversal(seg domain.Segment) domain.Traversal {
	kind := domain.KindDefault
	if seg.Connector {
		kind = domain.KindConnector
	}
	return domain.Traversal{
		Segment:   seg,
		Kind:      kind,
		Start:     domain.Stamp{Index: -1, Checkpoint: domain.Checkpoint{ID: seg.StartCheckpointID}},
		End:       domain.Stamp{Index: -1, Checkpoint: domain.Checkpoint{ID: seg.EndCheckpointID}},
		Direction: domain.DirectionUnknown,
	}
}
