package reference

import (
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Resolve returns the segment of trail t joining a and b in either direction
// whose validity covers at. When versions overlap because of bad data the one
// that started latest wins, so the result is never ambiguous.
//
// A miss is an expected outcome and is reported through ok.
func (s *Snapshot) Resolve(a, b string, at time.Time, t domain.Trail) (seg domain.Segment, ok bool) {
	for _, cand := range s.byEndpoint[endpointKey{t, a}] {
		if !cand.Connects(a, b) || !cand.Validity.Covers(at) {
			continue
		}
		if !ok || cand.Validity.Start.After(seg.Validity.Start) {
			seg, ok = cand, true
		}
	}
	return seg, ok
}

// ResolveActive returns the active segment of trail t departing checkpoint id.
// When the trail branches, the branch whose end comes first in trail order is
// returned.
func (s *Snapshot) ResolveActive(id string, t domain.Trail) (seg domain.Segment, ok bool) {
	for _, cand := range s.byEndpoint[endpointKey{t, id}] {
		if cand.StartCheckpointID != id || !cand.Validity.IsActive() {
			continue
		}
		if !ok || precedes(cand, seg, t) {
			seg, ok = cand, true
		}
	}
	return seg, ok
}

func precedes(a, b domain.Segment, t domain.Trail) bool {
	if c := domain.CompareCheckpointIDs(a.EndCheckpointID, b.EndCheckpointID, t); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}
