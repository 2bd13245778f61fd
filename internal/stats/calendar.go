package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// CalendarDiff returns the span from a to b in whole years, months and days.
// Months are counted first, clamping to the end of shorter months, and the
// remainder is expressed in whole days. A b before a yields the zero span.
func CalendarDiff(a, b time.Time) domain.CalendarSpan {
	b = b.In(a.Location())
	if !b.After(a) {
		return domain.CalendarSpan{}
	}

	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	for months > 0 && addMonths(a, months).After(b) {
		months--
	}
	base := addMonths(a, months)
	days := domain.DaysBetween(base, b)
	if clock(b) < clock(base) {
		days--
	}

	return domain.CalendarSpan{Years: months / 12, Months: months % 12, Days: days}
}

// addMonths moves t by n months, clamping the day to the target month's
// length so that Jan 31 + 1 month is the last day of February.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func clock(t time.Time) time.Duration {
	return t.Sub(domain.StartOfDay(t))
}

// ParseTimeLimit parses a nominal walking time of the form "HH:MM" or
// "HH:MM:SS". Hours may exceed 23.
func ParseTimeLimit(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("stats.ParseTimeLimit: %q: %w", s, domain.ErrValidation)
	}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("stats.ParseTimeLimit: %q: %w", s, domain.ErrValidation)
		}
		d += time.Duration(n) * units[i]
	}
	return d, nil
}
