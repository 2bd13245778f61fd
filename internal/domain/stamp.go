package domain

import (
	"fmt"
	"time"
)

// StampKind distinguishes second-precision digital stamps from calendar-day
// precision manual (booklet) stamps.
type StampKind string

const (
	StampDigital StampKind = "digistamp"
	StampManual  StampKind = "register"
)

// ParseStampKind validates a submitted fulfillment type.
func ParseStampKind(s string) (StampKind, error) {
	switch StampKind(s) {
	case StampDigital, StampManual:
		return StampKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown stamp kind %q", ErrMalformedStamp, s)
}

// StampInput is one submitted proof of presence as received from a caller.
type StampInput struct {
	StampPointID string
	Kind         string
	Unix         int64
}

// Stamp is an ingested proof of presence (BHD) bound to the checkpoint version
// that was valid at its time. Index is the position in the submitted list.
type Stamp struct {
	Index      int
	Checkpoint Checkpoint
	Kind       StampKind
	Time       time.Time
}

// Day returns local midnight of the stamp's calendar day.
func (s Stamp) Day() time.Time {
	return StartOfDay(s.Time)
}

// RejectedStamp records a submitted stamp excluded at ingestion.
type RejectedStamp struct {
	Index        int
	StampPointID string
	Reason       string
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a's day to b's day.
// The result is negative when b's day precedes a's.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
