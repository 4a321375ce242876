package domain

import "time"

type OpenItem struct {
	ID         string
	ProjectID  string
	Title      string
	OwnerID    *string
	Priority   OpenItemPriority
	Status     OpenItemStatus
	DueDate    *time.Time
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *OpenItem) IsClosed() bool {
	return o.Status == OpenItemResolved || o.Status == OpenItemClosed
}

// Resolve marks the item resolved. Resolving twice keeps the first timestamp.
func (o *OpenItem) Resolve(now time.Time) {
	if o.ResolvedAt == nil {
		o.ResolvedAt = &now
	}
	o.Status = OpenItemResolved
	o.UpdatedAt = now
}

// Overdue reports whether an unresolved item is past its due date.
func (o *OpenItem) Overdue(today time.Time) bool {
	return !o.IsClosed() && o.DueDate != nil && Day(*o.DueDate).Before(Day(today))
}
