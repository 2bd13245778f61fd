package reference

import (
	"errors"
	"fmt"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
)

// Finding is one data-quality problem detected in a snapshot.
type Finding struct {
	Trail   domain.Trail
	Subject string
	Problem string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s: %s", f.Trail, f.Subject, f.Problem)
}

// lengthToleranceKm absorbs rounding of recorded segment lengths.
const lengthToleranceKm = 0.05

// Audit checks the active network of every trail:
//   - both endpoints of each active segment exist as active checkpoints
//   - no segment is recorded shorter than the straight line between its ends
//   - the default graph connects the trail start to the trail end
//
// Findings are reported, not fixed; certification still runs on the data.
func (s *Snapshot) Audit() []Finding {
	var out []Finding
	for _, seg := range s.data.Segments {
		if !seg.Validity.IsActive() {
			continue
		}
		a, okA := s.ActiveCheckpoint(seg.StartCheckpointID)
		b, okB := s.ActiveCheckpoint(seg.EndCheckpointID)
		if !okA {
			out = append(out, Finding{seg.Trail, seg.ID, "start checkpoint " + seg.StartCheckpointID + " has no active version"})
		}
		if !okB {
			out = append(out, Finding{seg.Trail, seg.ID, "end checkpoint " + seg.EndCheckpointID + " has no active version"})
		}
		if !okA || !okB || !a.HasLocation() || !b.HasLocation() {
			continue
		}
		if crow := a.DistanceKm(b); seg.LengthKm+lengthToleranceKm < crow {
			out = append(out, Finding{seg.Trail, seg.ID, fmt.Sprintf("length %.2f km is shorter than the %.2f km straight line", seg.LengthKm, crow)})
		}
	}

	for _, t := range domain.Trails() {
		def, ok := s.ActiveDefinition(t)
		if !ok {
			continue
		}
		_, err := graph.BestPath(s.graphs[t], def.StartCheckpointID, def.EndCheckpointID)
		if errors.Is(err, domain.ErrNoPathFound) {
			out = append(out, Finding{t, "default graph", "start " + def.StartCheckpointID + " does not reach end " + def.EndCheckpointID})
		}
	}
	return out
}
