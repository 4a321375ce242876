package scheduler

import "github.com/alexanderramin/crewplan/internal/domain"

// Overlaps reports whether two inclusive date ranges share at least one day.
// Touching ranges (a.End == b.Start) overlap: a same-day handoff is a conflict.
func Overlaps(a, b domain.DateRange) bool {
	return !a.End.Before(b.Start) && !b.End.Before(a.Start)
}

// Intersection returns the shared days of two overlapping ranges.
// The result is only meaningful when Overlaps(a, b) is true.
func Intersection(a, b domain.DateRange) domain.DateRange {
	r := domain.DateRange{Start: a.Start, End: a.End}
	if b.Start.After(r.Start) {
		r.Start = b.Start
	}
	if b.End.Before(r.End) {
		r.End = b.End
	}
	return r
}
