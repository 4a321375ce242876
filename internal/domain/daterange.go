package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for every persisted date.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises both bounds to UTC midnight.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Validate fails when Start is after End.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("start date %s is after end date %s",
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

// Days returns the number of calendar days covered, both ends included.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Contains reports whether other lies entirely within r.
func (r DateRange) Contains(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar day by n days (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
