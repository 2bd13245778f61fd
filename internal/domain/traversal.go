package domain

import "time"

// TraversalKind classifies the evidence behind a segment traversal.
type TraversalKind string

const (
	KindDigital TraversalKind = "digital"
	KindManual  TraversalKind = "manual"
	// KindDefault is an unconfirmed placeholder for a segment not yet
	// evidenced by any stamp.
	KindDefault TraversalKind = "default"
	// KindConnector is a synthetic bridge that needs no evidence.
	KindConnector TraversalKind = "connector"
)

// Confirmed reports whether the kind counts towards completion.
func (k TraversalKind) Confirmed() bool {
	return k != KindDefault
}

// Evidenced reports whether the kind is backed by submitted stamps.
func (k TraversalKind) Evidenced() bool {
	return k == KindDigital || k == KindManual
}

// Direction is the walking direction relative to the segment's own
// start and end checkpoints.
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
	DirectionUnknown Direction = "unknown"
)

// Traversal is a classified crossing of a canonical segment (BHSzD).
// Start is the stamp bound to the segment's start checkpoint and End the one
// bound to its end checkpoint; both are zero for default and connector edges.
type Traversal struct {
	Segment   Segment
	Kind      TraversalKind
	Start     Stamp
	End       Stamp
	Direction Direction
	Elapsed   time.Duration // observed; digital traversals only
	SpeedMPS  float64       // digital traversals only

	// ValidatedAt is the staleness reference: the later of the two stamp
	// times for evidenced traversals.
	ValidatedAt time.Time
}

// From returns the segment's start checkpoint id.
func (t Traversal) From() string { return t.Segment.StartCheckpointID }

// To returns the segment's end checkpoint id.
func (t Traversal) To() string { return t.Segment.EndCheckpointID }

// FirstTime returns the earlier of the two stamp times.
func (t Traversal) FirstTime() time.Time {
	if t.End.Time.Before(t.Start.Time) {
		return t.End.Time
	}
	return t.Start.Time
}

// LastTime returns the later of the two stamp times.
func (t Traversal) LastTime() time.Time {
	if t.End.Time.After(t.Start.Time) {
		return t.End.Time
	}
	return t.Start.Time
}
