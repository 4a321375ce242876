package domain

import (
	"fmt"
	"time"
)

type Assignment struct {
	ID             string
	ProjectID      string
	ResourceID     string
	StartDate      time.Time
	EndDate        time.Time
	TravelOutDays  int
	TravelBackDays int
	Override       bool
	OverrideReason string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Assignment) Range() DateRange {
	return NewDateRange(a.StartDate, a.EndDate)
}

// Effective returns the booked range widened by travel days on both sides.
// This is the range used for every overlap comparison.
func (a *Assignment) Effective() DateRange {
	return DateRange{
		Start: AddDays(a.StartDate, -a.TravelOutDays),
		End:   AddDays(a.EndDate, a.TravelBackDays),
	}
}

// Validate checks the invariants that hold regardless of override status.
func (a *Assignment) Validate() error {
	if a.TravelOutDays < 0 {
		return fmt.Errorf("travel-out days must not be negative (got %d)", a.TravelOutDays)
	}
	if a.TravelBackDays < 0 {
		return fmt.Errorf("travel-back days must not be negative (got %d)", a.TravelBackDays)
	}
	if err := a.Range().Validate(); err != nil {
		return err
	}
	if a.Override && a.OverrideReason == "" {
		return fmt.Errorf("override requires a reason")
	}
	return nil
}
