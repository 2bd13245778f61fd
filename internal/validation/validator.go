// Package validation pairs time-sorted stamps into validated traversals of
// canonical segments.
package validation

import (
	"math"
	"sort"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// SegmentResolver finds the segment joining two checkpoints of a trail at a
// date. It is satisfied by *reference.Snapshot.
type SegmentResolver interface {
	Resolve(a, b string, at time.Time, t domain.Trail) (domain.Segment, bool)
}

// Policy holds the plausibility knobs applied to stamp pairs.
type Policy struct {
	// MaxSpeedMPS is the highest average speed accepted for a digital
	// traversal.
	MaxSpeedMPS float64
	// DayWindow is how many calendar days may separate two stamps of one
	// traversal.
	DayWindow int
	// Epoch is the earliest date segments are resolved at. Pairs stamped
	// before it resolve against the epoch version. Zero disables clamping.
	Epoch time.Time
}

// DefaultPolicy returns 4.17 m/s (about 15 km/h) and a one-day window.
func DefaultPolicy() Policy {
	return Policy{MaxSpeedMPS: 4.17, DayWindow: 1}
}

// Validator turns a stamp list into validated traversals.
type Validator struct {
	resolver SegmentResolver
	policy   Policy
}

// NewValidator returns a Validator resolving segments through r.
func NewValidator(r SegmentResolver, p Policy) *Validator {
	return &Validator{resolver: r, policy: p}
}

// Validate sorts stamps and walks them pairwise. Each adjacent pair that
// resolves to a segment and passes the speed check becomes a traversal. When
// a pair fails, the anchor is retried against later stamps inside its day
// window: at most one digital traversal is recorded for the anchor this way,
// while every resolvable manual candidate is recorded unless it repeats the
// checkpoint of the stamp just before it.
//
// The result is in discovery order. The input slice is not modified.
func (v *Validator) Validate(stamps []domain.Stamp, t domain.Trail) []domain.Traversal {
	sorted := SortStamps(stamps, t)

	var out []domain.Traversal
	for i := 0; i+1 < len(sorted); i++ {
		if tr, ok := v.pair(sorted[i], sorted[i+1], t); ok {
			out = append(out, tr)
			continue
		}
		out = append(out, v.widen(sorted, i, t)...)
	}
	return out
}

func (v *Validator) widen(sorted []domain.Stamp, i int, t domain.Trail) []domain.Traversal {
	anchor := sorted[i]

	var out []domain.Traversal
	seen := make(map[string]bool)
	digital := false
	for j := i + 2; j < len(sorted); j++ {
		c := sorted[j]
		if !v.inWindow(anchor, c) {
			break
		}
		if c.Checkpoint.ID == anchor.Checkpoint.ID {
			continue
		}
		seg, ok := v.resolver.Resolve(anchor.Checkpoint.ID, c.Checkpoint.ID, v.resolveAt(anchor, c), t)
		if !ok || seen[seg.ID] {
			continue
		}
		tr := bind(seg, anchor, c)
		switch tr.Kind {
		case domain.KindDigital:
			if digital || !v.plausible(tr) {
				continue
			}
			digital = true
		default:
			if c.Checkpoint.ID == sorted[j-1].Checkpoint.ID {
				continue
			}
		}
		seen[seg.ID] = true
		out = append(out, tr)
	}
	return out
}

// pair validates the adjacent stamps a and b.
func (v *Validator) pair(a, b domain.Stamp, t domain.Trail) (domain.Traversal, bool) {
	if !v.inWindow(a, b) || a.Checkpoint.ID == b.Checkpoint.ID {
		return domain.Traversal{}, false
	}
	seg, ok := v.resolver.Resolve(a.Checkpoint.ID, b.Checkpoint.ID, v.resolveAt(a, b), t)
	if !ok {
		return domain.Traversal{}, false
	}
	tr := bind(seg, a, b)
	if tr.Kind == domain.KindDigital && !v.plausible(tr) {
		return domain.Traversal{}, false
	}
	return tr, true
}

// resolveAt is the reference date of the pair a, b: the earlier stamp time,
// but never before the epoch.
func (v *Validator) resolveAt(a, b domain.Stamp) time.Time {
	at := earlier(a.Time, b.Time)
	if at.Before(v.policy.Epoch) {
		return v.policy.Epoch
	}
	return at
}

func (v *Validator) inWindow(a, b domain.Stamp) bool {
	d := domain.DaysBetween(a.Time, b.Time)
	if d < 0 {
		d = -d
	}
	return d <= v.policy.DayWindow
}

func (v *Validator) plausible(tr domain.Traversal) bool {
	return tr.SpeedMPS <= v.policy.MaxSpeedMPS
}

// bind attaches a and b to the segment's own start and end and classifies
// the traversal.
func bind(seg domain.Segment, a, b domain.Stamp) domain.Traversal {
	start, end := a, b
	if a.Checkpoint.ID != seg.StartCheckpointID {
		start, end = b, a
	}
	tr := domain.Traversal{
		Segment: seg,
		Kind:    domain.KindDigital,
		Start:   start,
		End:     end,
	}
	if start.Kind == domain.StampManual || end.Kind == domain.StampManual {
		tr.Kind = domain.KindManual
	}
	tr.ValidatedAt = tr.LastTime()

	if tr.Kind == domain.KindManual {
		tr.Direction = direction(domain.DaysBetween(start.Time, end.Time))
		return tr
	}

	tr.Direction = direction(int(end.Time.Sub(start.Time)))
	tr.Elapsed = tr.LastTime().Sub(tr.FirstTime())
	tr.SpeedMPS = speed(seg.LengthKm, tr.Elapsed)
	return tr
}

func direction(sign int) domain.Direction {
	switch {
	case sign > 0:
		return domain.DirectionForward
	case sign < 0:
		return domain.DirectionReverse
	}
	return domain.DirectionUnknown
}

// speed returns metres per second. Covering any distance in no time is
// infinitely fast.
func speed(km float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		if km > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return km * 1000 / elapsed.Seconds()
}

func earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// SortStamps returns a copy of stamps in validation order: calendar day,
// digital before manual, checkpoint position on trail t, checkpoint id,
// exact time, then submission index.
func SortStamps(stamps []domain.Stamp, t domain.Trail) []domain.Stamp {
	out := append([]domain.Stamp(nil), stamps...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ad, bd := a.Day(), b.Day(); !ad.Equal(bd) {
			return ad.Before(bd)
		}
		if (a.Kind == domain.StampDigital) != (b.Kind == domain.StampDigital) {
			return a.Kind == domain.StampDigital
		}
		if c := domain.CompareCheckpointIDs(a.Checkpoint.ID, b.Checkpoint.ID, t); c != 0 {
			return c < 0
		}
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.Index < b.Index
	})
	return out
}
