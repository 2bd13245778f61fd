package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/validation"
	"github.com/pkordes/bluetrail/testutil"
)

// ---- helpers ---------------------------------------------------------------

var day1 = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func newValidator() *validation.Validator {
	snap := reference.NewSnapshot(testutil.TrailData(), graph.DefaultWeights(), day1)
	return validation.NewValidator(snap, validation.DefaultPolicy())
}

type builder struct{ stamps []domain.Stamp }

func (b *builder) add(n int, kind domain.StampKind, at time.Time) *builder {
	if kind == domain.StampManual {
		at = domain.StartOfDay(at)
	}
	b.stamps = append(b.stamps, domain.Stamp{
		Index:      len(b.stamps),
		Checkpoint: domain.Checkpoint{ID: testutil.CheckpointID(n), StampPointID: testutil.StampPointID(n)},
		Kind:       kind,
		Time:       at,
	})
	return b
}

func digital(b *builder, n int, at time.Time) *builder { return b.add(n, domain.StampDigital, at) }
func manual(b *builder, n int, at time.Time) *builder  { return b.add(n, domain.StampManual, at) }

func segmentIDs(trs []domain.Traversal) []string {
	var out []string
	for _, tr := range trs {
		out = append(out, tr.Segment.ID)
	}
	return out
}

// ---- pairwise validation ---------------------------------------------------

func TestValidate_DigitalPairAccepted(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.Add(10*time.Hour))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 1)
	tr := got[0]
	assert.Equal(t, "S1", tr.Segment.ID)
	assert.Equal(t, domain.KindDigital, tr.Kind)
	assert.Equal(t, domain.DirectionForward, tr.Direction)
	assert.Equal(t, time.Hour, tr.Elapsed)
	assert.InDelta(t, 0.83, tr.SpeedMPS, 0.01)
	assert.Equal(t, day1.Add(10*time.Hour), tr.ValidatedAt)
}

func TestValidate_TooFastRejected(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.Add(9*time.Hour+time.Minute))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Empty(t, got)
}

func TestValidate_TooFastFallsBackToLaterStamp(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.Add(9*time.Hour+time.Minute))
	digital(b, 2, day1.Add(11*time.Hour))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].End.Index, "fallback pairs the anchor with the plausible stamp")
	assert.Equal(t, 2*time.Hour, got[0].Elapsed)
}

func TestValidate_ReverseDigital(t *testing.T) {
	b := &builder{}
	digital(b, 2, day1.Add(8*time.Hour))
	digital(b, 1, day1.Add(10*time.Hour))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 1)
	assert.Equal(t, domain.DirectionReverse, got[0].Direction)
	assert.Equal(t, testutil.CheckpointID(1), got[0].Start.Checkpoint.ID)
	assert.Equal(t, 2*time.Hour, got[0].Elapsed)
}

func TestValidate_OutsideDayWindow(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.AddDate(0, 0, 2).Add(9*time.Hour))

	assert.Empty(t, newValidator().Validate(b.stamps, domain.TrailOKT))
}

func TestValidate_NextDayWithinWindow(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(23*time.Hour))
	digital(b, 2, day1.AddDate(0, 0, 1).Add(8*time.Hour))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)
	assert.Equal(t, []string{"S1"}, segmentIDs(got))
}

// ---- manual stamps ---------------------------------------------------------

func TestValidate_ManualDirectionByDay(t *testing.T) {
	b := &builder{}
	manual(b, 1, day1)
	manual(b, 2, day1.AddDate(0, 0, 1))
	manual(b, 3, day1.AddDate(0, 0, 1))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 2)
	assert.Equal(t, domain.KindManual, got[0].Kind)
	assert.Equal(t, domain.DirectionForward, got[0].Direction)
	assert.Equal(t, domain.DirectionUnknown, got[1].Direction)
	assert.Zero(t, got[0].Elapsed)
}

func TestValidate_MixedPairIsManualWithoutSpeedCheck(t *testing.T) {
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	manual(b, 2, day1)

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 1)
	assert.Equal(t, domain.KindManual, got[0].Kind)
}

func TestValidate_ManualRecoveredByWidening(t *testing.T) {
	// Sorted: 01(d) 03(d) 02(m). The 01-03 pair has no segment, so the
	// anchor 01 is retried against the manual 02.
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 3, day1.Add(12*time.Hour))
	manual(b, 2, day1)

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Equal(t, []string{"S1", "S2"}, segmentIDs(got))
	for _, tr := range got {
		assert.Equal(t, domain.KindManual, tr.Kind)
	}
}

func TestValidate_AtMostOneDigitalPerAnchor(t *testing.T) {
	b := &builder{}
	digital(b, 2, day1.Add(23*time.Hour))
	manual(b, 5, day1)
	next := day1.AddDate(0, 0, 1)
	digital(b, 1, next.Add(30*time.Minute))
	digital(b, 3, next.Add(45*time.Minute))

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Equal(t, []string{"S1"}, segmentIDs(got))
}

func TestValidate_WideningSkipsManualRepeatingPredecessor(t *testing.T) {
	// Sorted: 01(d) 02(d, too fast) 02(m). The manual 02 repeats the
	// checkpoint just before it, so the anchor 01 is not paired with it.
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.Add(9*time.Hour+time.Minute))
	manual(b, 2, day1)

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Empty(t, got)
}

func TestValidate_WideningRecordsSegmentOncePerAnchor(t *testing.T) {
	// Sorted: 01(d) 02(d, too fast) 02(d) 01(m) 02(m). Anchor 01 records S1
	// as digital through the plausible 02 and does not record it again
	// through the manual 02.
	b := &builder{}
	digital(b, 1, day1.Add(9*time.Hour))
	digital(b, 2, day1.Add(9*time.Hour+time.Minute))
	digital(b, 2, day1.Add(11*time.Hour))
	manual(b, 1, day1)
	manual(b, 2, day1)

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	require.Len(t, got, 4)
	assert.LessOrEqual(t, len(got), len(b.stamps)-1)
	assert.Equal(t, domain.KindDigital, got[0].Kind)
	assert.Equal(t, 2, got[0].End.Index)
	var fromAnchor int
	for _, tr := range got {
		if tr.Start.Index == 0 || tr.End.Index == 0 {
			fromAnchor++
		}
	}
	assert.Equal(t, 1, fromAnchor)
}

func TestValidate_PreEpochPairResolvesAtEpoch(t *testing.T) {
	snap := reference.NewSnapshot(testutil.TrailData(), graph.DefaultWeights(), day1)
	p := validation.DefaultPolicy()
	p.Epoch = testutil.Epoch
	start := testutil.Epoch.Add(-15 * time.Hour)
	b := &builder{}
	digital(b, 1, start)
	digital(b, 2, start.Add(time.Hour))

	got := validation.NewValidator(snap, p).Validate(b.stamps, domain.TrailOKT)
	assert.Equal(t, []string{"S1"}, segmentIDs(got))
	assert.Empty(t, newValidator().Validate(b.stamps, domain.TrailOKT), "without an epoch nothing resolves before the data")
}

// ---- properties ------------------------------------------------------------

func TestValidate_FullWalkProperties(t *testing.T) {
	b := &builder{}
	for n := 1; n <= 5; n++ {
		digital(b, n, day1.Add(time.Duration(6+2*n)*time.Hour))
	}

	got := newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, segmentIDs(got))
	assert.LessOrEqual(t, len(got), len(b.stamps)-1)
	for _, tr := range got {
		assert.Contains(t, b.stamps, tr.Start)
		assert.Contains(t, b.stamps, tr.End)
	}
}

func TestValidate_InputNotModified(t *testing.T) {
	b := &builder{}
	digital(b, 2, day1.Add(10*time.Hour))
	digital(b, 1, day1.Add(9*time.Hour))
	before := append([]domain.Stamp(nil), b.stamps...)

	newValidator().Validate(b.stamps, domain.TrailOKT)

	assert.Equal(t, before, b.stamps)
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, newValidator().Validate(nil, domain.TrailOKT))
}

// ---- SortStamps ------------------------------------------------------------

func TestSortStamps(t *testing.T) {
	b := &builder{}
	manual(b, 1, day1)                    // 0
	digital(b, 3, day1.Add(9*time.Hour))  // 1
	digital(b, 2, day1.Add(10*time.Hour)) // 2
	digital(b, 1, day1.AddDate(0, 0, -1)) // 3
	digital(b, 2, day1.Add(8*time.Hour))  // 4

	got := validation.SortStamps(b.stamps, domain.TrailOKT)

	var order []int
	for _, s := range got {
		order = append(order, s.Index)
	}
	assert.Equal(t, []int{3, 4, 2, 1, 0}, order)
}
