package domain

import "time"

// Validity is the half-open interval [Start, End) during which a reference
// record version is in force. A nil End means the version is still active.
type Validity struct {
	Start time.Time
	End   *time.Time
}

// Covers reports whether t falls inside the interval.
func (v Validity) Covers(t time.Time) bool {
	if t.Before(v.Start) {
		return false
	}
	return v.End == nil || t.Before(*v.End)
}

// IsActive reports whether the version has no end date.
func (v Validity) IsActive() bool {
	return v.End == nil
}

// Overlaps reports whether the interval shares any instant with [from, to].
func (v Validity) Overlaps(from, to time.Time) bool {
	if to.Before(v.Start) {
		return false
	}
	return v.End == nil || from.Before(*v.End)
}
