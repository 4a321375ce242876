package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID              string
	ProjectID       string
	ParentID        *string // phase
	Title           string
	StartDate       time.Time
	EndDate         time.Time
	Status          TaskStatus
	PercentComplete int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Task) Range() DateRange {
	return NewDateRange(t.StartDate, t.EndDate)
}

// DurationDays is the day offset from start to end. A one-day task has 0.
func (t *Task) DurationDays() int {
	return DaysBetween(t.StartDate, t.EndDate)
}

// Reschedule moves the task so it starts on start and keeps its duration.
func (t *Task) Reschedule(start time.Time, now time.Time) {
	d := t.DurationDays()
	t.StartDate = Day(start)
	t.EndDate = AddDays(start, d)
	t.UpdatedAt = now
}

// SetProgress updates percent complete and derives the status from it.
// Cancelled and blocked tasks keep their status.
func (t *Task) SetProgress(pct int, now time.Time) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("percent complete must be between 0 and 100 (got %d)", pct)
	}
	t.PercentComplete = pct
	if t.Status != TaskCancelled && t.Status != TaskBlocked {
		switch {
		case pct == 100:
			t.Status = TaskCompleted
		case pct > 0:
			t.Status = TaskInProgress
		default:
			t.Status = TaskNotStarted
		}
	}
	t.UpdatedAt = now
	return nil
}

type TaskDependency struct {
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	LagDays       int
}
