package domain

import "time"

type Resource struct {
	ID        string
	Name      string
	Email     *string
	Category  ResourceCategory
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Unavailability struct {
	ID         string
	ResourceID string
	Type       UnavailabilityType
	StartDate  time.Time
	EndDate    time.Time
	Approval   ApprovalState
	Reason     string
	CreatedAt  time.Time
}

func (u *Unavailability) Range() DateRange {
	return NewDateRange(u.StartDate, u.EndDate)
}

// Blocks reports whether the record takes the resource out of the schedule.
// Rejected requests never block.
func (u *Unavailability) Blocks() bool {
	return u.Approval != ApprovalRejected
}
