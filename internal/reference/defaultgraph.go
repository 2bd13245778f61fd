package reference

import (
	"fmt"
	"sort"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
)

// buildDefaultGraph wraps every active segment of def's trail as a default
// edge, then walks the trail from its start to bridge gaps in the active
// network with connector edges.
func buildDefaultGraph(s *Snapshot, def domain.TrailDefinition, w graph.Weights) *graph.MultiGraph {
	t := def.Trail

	var active []domain.Segment
	for _, seg := range s.data.Segments {
		if seg.Trail == t && seg.Validity.IsActive() {
			active = append(active, seg)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if c := domain.CompareCheckpointIDs(active[i].StartCheckpointID, active[j].StartCheckpointID, t); c != 0 {
			return c < 0
		}
		return active[i].ID < active[j].ID
	})

	g := graph.New()
	for _, seg := range active {
		g.AddEdge(graph.DefaultTraversal(seg), w.Default)
	}

	for _, seg := range connectors(s, def, active) {
		tr := graph.DefaultTraversal(seg)
		g.AddEdge(tr, w.Weigh(tr, s.loadedAt))
	}
	return g
}

// connectors follows ResolveActive from the trail start. Wherever the walk
// stops short of the trail end it jumps to the checkpoint carrying the next
// ordinal and records a zero-length connector for the jump.
func connectors(s *Snapshot, def domain.TrailDefinition, active []domain.Segment) []domain.Segment {
	t := def.Trail

	byOrdinal := make(map[int]string)
	var ordinals []int
	note := func(id string) {
		n, ok := domain.CheckpointOrdinal(id, t)
		if !ok {
			return
		}
		if _, seen := byOrdinal[n]; !seen {
			ordinals = append(ordinals, n)
		}
		byOrdinal[n] = id
	}
	for _, seg := range active {
		note(seg.StartCheckpointID)
	}
	note(def.EndCheckpointID)
	sort.Ints(ordinals)

	next := func(id string) (string, bool) {
		n, ok := domain.CheckpointOrdinal(id, t)
		if !ok {
			return "", false
		}
		i := sort.SearchInts(ordinals, n+1)
		if i == len(ordinals) {
			return "", false
		}
		return byOrdinal[ordinals[i]], true
	}

	var out []domain.Segment
	section := ""
	visited := make(map[string]bool)
	for cur := def.StartCheckpointID; cur != def.EndCheckpointID && !visited[cur]; {
		visited[cur] = true
		if seg, ok := s.ResolveActive(cur, t); ok {
			section = seg.MajorSectionID
			cur = seg.EndCheckpointID
			continue
		}
		to, ok := next(cur)
		if !ok {
			break
		}
		out = append(out, domain.Segment{
			ID:                fmt.Sprintf("connector:%s:%s", cur, to),
			MajorSectionID:    section,
			Name:              "connector",
			StartCheckpointID: cur,
			EndCheckpointID:   to,
			Trail:             t,
			Validity:          domain.Validity{Start: def.Validity.Start},
			Connector:         true,
		})
		cur = to
	}
	return out
}
