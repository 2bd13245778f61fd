package reference_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/testutil"
)

// ---- helpers ---------------------------------------------------------------

var loadedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func snapshot(d reference.Data) *reference.Snapshot {
	return reference.NewSnapshot(d, graph.DefaultWeights(), loadedAt)
}

func ptr(t time.Time) *time.Time { return &t }

// retireSegment ends the S2 version at cut and adds a replacement 02->03 that
// is 6 km long from cut onward.
func retireSegment(d *reference.Data, cut time.Time) {
	for i := range d.Segments {
		if d.Segments[i].ID == "S2" {
			d.Segments[i].Validity.End = ptr(cut)
		}
	}
	d.Segments = append(d.Segments, domain.Segment{
		ObjectID:          99,
		ID:                "S2",
		MajorSectionID:    "M1",
		StartCheckpointID: testutil.CheckpointID(2),
		EndCheckpointID:   testutil.CheckpointID(3),
		LengthKm:          6,
		Trail:             domain.TrailOKT,
		Validity:          domain.Validity{Start: cut},
	})
}

// ---- Resolve ---------------------------------------------------------------

func TestResolve_Undirected(t *testing.T) {
	snap := snapshot(testutil.TrailData())
	at := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	ab, ok := snap.Resolve(testutil.CheckpointID(1), testutil.CheckpointID(2), at, domain.TrailOKT)
	require.True(t, ok)
	ba, ok := snap.Resolve(testutil.CheckpointID(2), testutil.CheckpointID(1), at, domain.TrailOKT)
	require.True(t, ok)

	assert.Equal(t, ab, ba)
	assert.Equal(t, "S1", ab.ID)
}

func TestResolve_Misses(t *testing.T) {
	snap := snapshot(testutil.TrailData())
	at := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	_, ok := snap.Resolve(testutil.CheckpointID(1), testutil.CheckpointID(3), at, domain.TrailOKT)
	assert.False(t, ok, "non-adjacent checkpoints")

	_, ok = snap.Resolve(testutil.CheckpointID(1), testutil.CheckpointID(2), at, domain.TrailDDK)
	assert.False(t, ok, "other trail")

	_, ok = snap.Resolve(testutil.CheckpointID(1), testutil.CheckpointID(2), testutil.Epoch.Add(-time.Hour), domain.TrailOKT)
	assert.False(t, ok, "before any version")
}

func TestResolve_PicksVersionValidAtDate(t *testing.T) {
	d := testutil.TrailData()
	cut := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	retireSegment(&d, cut)
	snap := snapshot(d)

	old, ok := snap.Resolve(testutil.CheckpointID(3), testutil.CheckpointID(2), cut.Add(-time.Second), domain.TrailOKT)
	require.True(t, ok)
	assert.Equal(t, 4.0, old.LengthKm)

	cur, ok := snap.Resolve(testutil.CheckpointID(2), testutil.CheckpointID(3), cut, domain.TrailOKT)
	require.True(t, ok)
	assert.Equal(t, 6.0, cur.LengthKm)
}

func TestResolveActive(t *testing.T) {
	d := testutil.TrailData()
	retireSegment(&d, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	snap := snapshot(d)

	seg, ok := snap.ResolveActive(testutil.CheckpointID(2), domain.TrailOKT)
	require.True(t, ok)
	assert.Equal(t, 6.0, seg.LengthKm)

	_, ok = snap.ResolveActive(testutil.CheckpointID(5), domain.TrailOKT)
	assert.False(t, ok, "trail end has no departing segment")
}

func TestCheckpointAt(t *testing.T) {
	snap := snapshot(testutil.TrailData())

	cp, ok := snap.CheckpointAt(testutil.StampPointID(3), loadedAt)
	require.True(t, ok)
	assert.Equal(t, testutil.CheckpointID(3), cp.ID)

	_, ok = snap.CheckpointAt("nope", loadedAt)
	assert.False(t, ok)
}

// ---- default graph ---------------------------------------------------------

func TestDefaultGraph_AllActiveSegments(t *testing.T) {
	snap := snapshot(testutil.TrailData())

	g := snap.DefaultGraph(domain.TrailOKT)
	require.NotNil(t, g)
	assert.Equal(t, 4, g.EdgeCount())
	for _, e := range g.Edges() {
		assert.Equal(t, domain.KindDefault, e.Traversal.Kind)
	}
	assert.Nil(t, snap.DefaultGraph(domain.TrailAK))
}

func TestDefaultGraph_BridgesGapWithConnector(t *testing.T) {
	d := testutil.TrailData()
	// Drop S3 (03 -> 04): the walk must jump from 03 to the next ordinal.
	var kept []domain.Segment
	for _, s := range d.Segments {
		if s.ID != "S3" {
			kept = append(kept, s)
		}
	}
	d.Segments = kept
	snap := snapshot(d)

	g := snap.DefaultGraph(domain.TrailOKT)
	var connector *graph.Edge
	for _, e := range g.Edges() {
		e := e
		if e.Traversal.Kind == domain.KindConnector {
			connector = &e
		}
	}
	require.NotNil(t, connector)
	assert.Equal(t, testutil.CheckpointID(3), connector.From)
	assert.Equal(t, testutil.CheckpointID(4), connector.To)
	assert.Equal(t, "M1", connector.Traversal.Segment.MajorSectionID)
	assert.Zero(t, connector.Traversal.Segment.LengthKm)

	_, err := graph.BestPath(g, testutil.CheckpointID(1), testutil.CheckpointID(5))
	assert.NoError(t, err)
}

// ---- Store -----------------------------------------------------------------

func TestStore_LoadBeforeReplace(t *testing.T) {
	s := reference.NewStore()
	_, err := s.Load()
	assert.True(t, errors.Is(err, domain.ErrSnapshotUnavailable))
}

func TestStore_Replace(t *testing.T) {
	s := reference.NewStore()
	first := snapshot(testutil.TrailData())
	s.Replace(first)

	held, err := s.Load()
	require.NoError(t, err)

	second := snapshot(reference.Data{})
	s.Replace(second)

	now, err := s.Load()
	require.NoError(t, err)
	assert.Same(t, first, held, "a held handle is unaffected by Replace")
	assert.Same(t, second, now)
}

// ---- Audit -----------------------------------------------------------------

func TestAudit_CleanData(t *testing.T) {
	snap := snapshot(testutil.TrailData())
	assert.Empty(t, snap.Audit())
}

func TestAudit_Findings(t *testing.T) {
	d := testutil.TrailData()
	d.Segments[0].LengthKm = 0.1
	d.Segments[3].EndCheckpointID = "OKTPH_77"
	snap := snapshot(d)

	findings := snap.Audit()
	var problems []string
	for _, f := range findings {
		problems = append(problems, f.String())
	}
	require.Len(t, findings, 3, "%v", problems)
	assert.Equal(t, "S1", findings[0].Subject)
	assert.Equal(t, "S4", findings[1].Subject)
	assert.Equal(t, "default graph", findings[2].Subject)
}
