package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func rng(startDay, endDay int) domain.DateRange {
	return domain.NewDateRange(day(time.January, startDay), day(time.January, endDay))
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.DateRange
		want bool
	}{
		{"disjoint", rng(1, 5), rng(7, 9), false},
		{"adjacent days do not touch", rng(1, 5), rng(6, 9), false},
		{"touching end/start", rng(1, 5), rng(5, 9), true},
		{"contained", rng(1, 10), rng(3, 4), true},
		{"identical", rng(2, 2), rng(2, 2), true},
		{"partial", rng(1, 5), rng(3, 8), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, tc.want, Overlaps(tc.b, tc.a), "overlap must be symmetric")
		})
	}
}

func TestIntersection(t *testing.T) {
	got := Intersection(rng(1, 5), rng(3, 8))
	assert.Equal(t, rng(3, 5), got)

	got = Intersection(rng(1, 5), rng(5, 9))
	assert.Equal(t, rng(5, 5), got)
}
