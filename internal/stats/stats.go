// Package stats aggregates a best path and the validated traversals of one
// request into a domain.Statistics record.
package stats

import (
	"math"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Input is everything Compute reads. Nothing in it is modified.
type Input struct {
	Validated []domain.Traversal
	BestPath  []domain.Traversal

	CompletedSections int
	AllSections       int

	Now time.Time
}

// Compute derives the statistics record. It is a pure function of in.
func Compute(in Input) domain.Statistics {
	var s domain.Statistics
	s.CompletedMainSections = in.CompletedSections
	s.AllMainSections = in.AllSections

	pathTotals(&s, in.BestPath)

	s.LengthPercentage = percent(s.CompletedLength, s.AllLength)
	s.ElevationPercentage = percent(s.CompletedElevation, s.AllElevation)
	s.Completed = isComplete(in.BestPath)

	km, walked := validatedTotals(in.Validated)
	if walked > 0 {
		s.AverageSpeed = km * 1000 / walked.Seconds() * 3.6
	}
	s.TimeOnBlue = domain.TimeOnTrail{
		Days:  int(walked / (24 * time.Hour)),
		Hours: int(walked%(24*time.Hour)) / int(time.Hour),
	}

	first, last, ok := evidenceSpan(in.Validated)
	if !ok {
		return s
	}
	if s.Completed {
		s.SinceFirstStamp = CalendarDiff(first, last)
		return s
	}
	s.SinceFirstStamp = CalendarDiff(first, in.Now)
	if s.LengthPercentage > 0 && s.LengthPercentage < 100 {
		s.ExpectedCompletion = CalendarDiff(in.Now, in.Now.Add(extrapolate(in.Now.Sub(first), s.LengthPercentage)))
	}
	return s
}

func pathTotals(s *domain.Statistics, path []domain.Traversal) {
	all := make(map[string]struct{})
	done := make(map[string]struct{})
	for _, tr := range path {
		km := tr.Segment.LengthKm
		s.AllLength += km
		if tr.Kind == domain.KindDefault {
			s.RemainingLength += km
		} else {
			s.CompletedLength += km
		}

		elev := float64(tr.Segment.ElevationGain)
		if tr.Direction == domain.DirectionReverse {
			elev = float64(tr.Segment.ElevationLoss)
		}
		s.AllElevation += elev
		if tr.Kind.Confirmed() {
			s.CompletedElevation += elev
		}

		if tr.Kind == domain.KindConnector {
			continue
		}
		all[tr.From()] = struct{}{}
		all[tr.To()] = struct{}{}
		if tr.Kind.Evidenced() {
			done[tr.From()] = struct{}{}
			done[tr.To()] = struct{}{}
		}
	}
	s.CompletedStamps = len(done)
	s.RemainingStamps = len(all) - len(done)
}

// validatedTotals sums distance and walking time over every validated
// traversal. Manual traversals contribute the segment's nominal time limit
// for their direction.
func validatedTotals(validated []domain.Traversal) (km float64, walked time.Duration) {
	for _, tr := range validated {
		km += tr.Segment.LengthKm
		walked += elapsed(tr)
	}
	return km, walked
}

func elapsed(tr domain.Traversal) time.Duration {
	if tr.Kind != domain.KindManual {
		return tr.Elapsed
	}
	limit := tr.Segment.TimeLimitForward
	if tr.Direction == domain.DirectionReverse {
		limit = tr.Segment.TimeLimitReverse
	}
	d, err := ParseTimeLimit(limit)
	if err != nil {
		return 0
	}
	return d
}

// evidenceSpan returns the earliest and latest stamp times over the
// validated traversals.
func evidenceSpan(validated []domain.Traversal) (first, last time.Time, ok bool) {
	for _, tr := range validated {
		if !tr.Kind.Evidenced() {
			continue
		}
		if !ok || tr.FirstTime().Before(first) {
			first = tr.FirstTime()
		}
		if !ok || tr.LastTime().After(last) {
			last = tr.LastTime()
		}
		ok = true
	}
	return first, last, ok
}

// isComplete reports whether path is non-empty and uses no default edge.
func isComplete(path []domain.Traversal) bool {
	if len(path) == 0 {
		return false
	}
	for _, tr := range path {
		if !tr.Kind.Confirmed() {
			return false
		}
	}
	return true
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// extrapolate scales d by 100/pct, saturating at the largest Duration.
func extrapolate(d time.Duration, pct float64) time.Duration {
	f := float64(d) * 100 / pct
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(f)
}
