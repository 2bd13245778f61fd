// Package reference holds the immutable in-memory reference snapshot:
// versioned checkpoints, canonical segments, major sections and trail
// definitions, plus one precomputed default graph per trail. A snapshot is
// never modified after NewSnapshot returns; refreshes build a new one and swap
// it into a Store.
package reference

import (
	"sort"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
)

// Data is the raw content of the reference tables.
type Data struct {
	Checkpoints []domain.Checkpoint
	Segments    []domain.Segment
	Sections    []domain.MajorSection
	Definitions []domain.TrailDefinition
}

// Snapshot is a read-only view over one load of the reference tables.
// It is safe for concurrent use.
type Snapshot struct {
	loadedAt time.Time
	data     Data

	byStampPoint map[string][]domain.Checkpoint
	byEndpoint   map[endpointKey][]domain.Segment
	graphs       map[domain.Trail]*graph.MultiGraph
}

type endpointKey struct {
	trail      domain.Trail
	checkpoint string
}

// NewSnapshot indexes d and builds the default graph of every trail that has
// an active definition.
func NewSnapshot(d Data, w graph.Weights, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		loadedAt:     loadedAt,
		data:         d,
		byStampPoint: make(map[string][]domain.Checkpoint),
		byEndpoint:   make(map[endpointKey][]domain.Segment),
		graphs:       make(map[domain.Trail]*graph.MultiGraph),
	}
	for _, c := range d.Checkpoints {
		s.byStampPoint[c.StampPointID] = append(s.byStampPoint[c.StampPointID], c)
	}
	for _, seg := range d.Segments {
		s.byEndpoint[endpointKey{seg.Trail, seg.StartCheckpointID}] = append(s.byEndpoint[endpointKey{seg.Trail, seg.StartCheckpointID}], seg)
		if seg.EndCheckpointID != seg.StartCheckpointID {
			s.byEndpoint[endpointKey{seg.Trail, seg.EndCheckpointID}] = append(s.byEndpoint[endpointKey{seg.Trail, seg.EndCheckpointID}], seg)
		}
	}
	for _, t := range domain.Trails() {
		def, ok := s.ActiveDefinition(t)
		if !ok {
			continue
		}
		s.graphs[t] = buildDefaultGraph(s, def, w)
	}
	return s
}

// LoadedAt returns when the underlying data was read.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Checkpoints returns every checkpoint version. The slice must not be modified.
func (s *Snapshot) Checkpoints() []domain.Checkpoint { return s.data.Checkpoints }

// Segments returns every segment version. The slice must not be modified.
func (s *Snapshot) Segments() []domain.Segment { return s.data.Segments }

// DefaultGraph returns the cached default graph of t, or nil when t has no
// active definition. Callers must Clone before modifying it.
func (s *Snapshot) DefaultGraph(t domain.Trail) *graph.MultiGraph {
	return s.graphs[t]
}

// CheckpointAt returns the checkpoint version carrying stampPointID that is
// valid at at.
func (s *Snapshot) CheckpointAt(stampPointID string, at time.Time) (domain.Checkpoint, bool) {
	for _, c := range s.byStampPoint[stampPointID] {
		if c.Validity.Covers(at) {
			return c, true
		}
	}
	return domain.Checkpoint{}, false
}

// ActiveCheckpoint returns the current version of checkpoint id.
func (s *Snapshot) ActiveCheckpoint(id string) (domain.Checkpoint, bool) {
	for _, c := range s.data.Checkpoints {
		if c.ID == id && c.Validity.IsActive() {
			return c, true
		}
	}
	return domain.Checkpoint{}, false
}

// ActiveSections returns the current major sections of t ordered by id.
func (s *Snapshot) ActiveSections(t domain.Trail) []domain.MajorSection {
	var out []domain.MajorSection
	for _, m := range s.data.Sections {
		if m.Trail == t && m.Validity.IsActive() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Definitions returns every definition version of t overlapping [from, to].
func (s *Snapshot) Definitions(t domain.Trail, from, to time.Time) []domain.TrailDefinition {
	var out []domain.TrailDefinition
	for _, d := range s.data.Definitions {
		if d.Trail == t && d.Validity.Overlaps(from, to) {
			out = append(out, d)
		}
	}
	return out
}

// ActiveDefinition returns the current definition of t.
func (s *Snapshot) ActiveDefinition(t domain.Trail) (domain.TrailDefinition, bool) {
	for _, d := range s.data.Definitions {
		if d.Trail == t && d.Validity.IsActive() {
			return d, true
		}
	}
	return domain.TrailDefinition{}, false
}
