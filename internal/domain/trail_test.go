package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/domain"
)

func TestParseTrail(t *testing.T) {
	cases := map[string]domain.Trail{
		"OKT":   domain.TrailOKT,
		"okt":   domain.TrailOKT,
		"DDK":   domain.TrailDDK,
		"RPDDK": domain.TrailDDK,
		" ak ":  domain.TrailAK,
	}
	for in, want := range cases {
		got, err := domain.ParseTrail(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseTrail("XYZ")
	assert.True(t, errors.Is(err, domain.ErrUnknownTrail))
}

func TestCheckpointOrdinal_SharedCheckpoint(t *testing.T) {
	id := "OKTPH_12_DDKPH_03"

	n, ok := domain.CheckpointOrdinal(id, domain.TrailOKT)
	require.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = domain.CheckpointOrdinal(id, domain.TrailDDK)
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = domain.CheckpointOrdinal(id, domain.TrailAK)
	assert.False(t, ok)
}

func TestCompareCheckpointIDs(t *testing.T) {
	assert.Equal(t, -1, domain.CompareCheckpointIDs("OKTPH_2", "OKTPH_10", domain.TrailOKT))
	assert.Equal(t, 1, domain.CompareCheckpointIDs("OKTPH_10", "OKTPH_2", domain.TrailOKT))
	// ids without an ordinal sort last
	assert.Equal(t, -1, domain.CompareCheckpointIDs("OKTPH_99", "X", domain.TrailOKT))
	assert.Equal(t, 0, domain.CompareCheckpointIDs("OKTPH_01", "OKTPH_01", domain.TrailOKT))
}

func TestParseStampKind(t *testing.T) {
	k, err := domain.ParseStampKind("digistamp")
	require.NoError(t, err)
	assert.Equal(t, domain.StampDigital, k)

	_, err = domain.ParseStampKind("photo")
	assert.True(t, errors.Is(err, domain.ErrMalformedStamp))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	b := time.Date(2024, 4, 1, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 1, domain.DaysBetween(a, b))
	assert.Equal(t, -1, domain.DaysBetween(b, a))
	assert.Equal(t, 0, domain.DaysBetween(a, a.Add(10*time.Minute)))
}

// ---- Validity --------------------------------------------------------------

func TestValidity_HalfOpen(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	v := domain.Validity{Start: start, End: &end}

	assert.True(t, v.Covers(start))
	assert.True(t, v.Covers(end.Add(-time.Second)))
	assert.False(t, v.Covers(end))
	assert.False(t, v.Covers(start.Add(-time.Second)))
	assert.False(t, v.IsActive())
}

func TestValidity_Overlaps(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	v := domain.Validity{Start: start, End: &end}

	assert.True(t, v.Overlaps(start.AddDate(0, -1, 0), start))
	assert.False(t, v.Overlaps(end, end.AddDate(0, 1, 0)))
	assert.True(t, domain.Validity{Start: start}.Overlaps(end, end))
}

func TestCheckpoint_DistanceKm(t *testing.T) {
	a := domain.Checkpoint{Lat: 47.5, Lon: 19.0}
	b := domain.Checkpoint{Lat: 47.5, Lon: 19.1}
	// ~7.5 km along the 47.5 degree parallel
	assert.InDelta(t, 7.5, a.DistanceKm(b), 0.1)
	assert.False(t, domain.Checkpoint{}.HasLocation())
}
