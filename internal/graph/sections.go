package graph

import "github.com/pkordes/bluetrail/internal/domain"

// SectionResult reports whether one major section is fully confirmed.
type SectionResult struct {
	Section   domain.MajorSection
	Completed bool
}

// CompleteSections checks every major section against the best path. A
// section counts when the confirmed traversals of the path that belong to it
// connect the section's own start to its own end. A missing connection is not
// an error; the section simply earns no credit.
func CompleteSections(path Path, sections []domain.MajorSection) []SectionResult {
	bySection := make(map[string]*MultiGraph)
	for _, e := range path.Edges {
		if !e.Traversal.Kind.Confirmed() {
			continue
		}
		id := e.Traversal.Segment.MajorSectionID
		g, ok := bySection[id]
		if !ok {
			g = New()
			bySection[id] = g
		}
		g.AddEdge(e.Traversal, e.Weight)
	}

	out := make([]SectionResult, 0, len(sections))
	for _, s := range sections {
		res := SectionResult{Section: s}
		if g, ok := bySection[s.ID]; ok {
			_, err := BestPath(g, s.StartCheckpointID, s.EndCheckpointID)
			res.Completed = err == nil
		}
		out = append(out, res)
	}
	return out
}

// CountCompleted returns how many results are completed.
func CountCompleted(results []SectionResult) int {
	n := 0
	for _, r := range results {
		if r.Completed {
			n++
		}
	}
	return n
}
