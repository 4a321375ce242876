package scheduler

import (
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// TaskSchedule holds the forward/backward pass results for one task.
// Finish dates are the last working day, so a one-day task has
// EarlyStart == EarlyFinish.
type TaskSchedule struct {
	TaskID      string
	EarlyStart  time.Time
	EarlyFinish time.Time
	LateStart   time.Time
	LateFinish  time.Time
	SlackDays   int
	Critical    bool
}

type CriticalPathResult struct {
	ProjectEnd time.Time
	// Order lists task ids in dependency order.
	Order     []string
	Schedules map[string]TaskSchedule
	Critical  map[string]struct{}
}

// CriticalPath runs a full forward and backward pass over the graph.
//
// Forward: a task starts no earlier than its planned start and no earlier than
// any predecessor edge allows. Backward: tasks without successors finish at
// the project end (latest early finish); every other task's late finish is
// the tightest bound over its successor edges, capped at the project end.
// Zero slack marks a task critical.
func (g *Graph) CriticalPath() (*CriticalPathResult, error) {
	result := &CriticalPathResult{
		Schedules: make(map[string]TaskSchedule, len(g.tasks)),
		Critical:  make(map[string]struct{}),
	}
	if len(g.tasks) == 0 {
		return result, nil
	}

	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}
	result.Order = order

	// Offsets are day numbers relative to the earliest planned start.
	base := g.tasks[order[0]].StartDate
	for _, t := range g.tasks {
		if t.StartDate.Before(base) {
			base = t.StartDate
		}
	}

	es := make(map[string]int, len(order))
	ef := make(map[string]int, len(order))
	dur := make(map[string]int, len(order))

	projectEnd := 0
	for i, id := range order {
		t := g.tasks[id]
		dur[id] = t.DurationDays()
		start := domain.DaysBetween(base, t.StartDate)
		for _, d := range g.pred[id] {
			if c := successorStart(d, es[d.PredecessorID], ef[d.PredecessorID], dur[id]); c > start {
				start = c
			}
		}
		es[id] = start
		ef[id] = start + dur[id]
		if i == 0 || ef[id] > projectEnd {
			projectEnd = ef[id]
		}
	}

	ls := make(map[string]int, len(order))
	lf := make(map[string]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		finish := projectEnd
		for _, d := range g.succ[id] {
			if c := predecessorLateFinish(d, ls[d.SuccessorID], lf[d.SuccessorID], dur[id]); c < finish {
				finish = c
			}
		}
		lf[id] = finish
		ls[id] = finish - dur[id]
	}

	result.ProjectEnd = domain.AddDays(base, projectEnd)
	for _, id := range order {
		slack := ls[id] - es[id]
		s := TaskSchedule{
			TaskID:      id,
			EarlyStart:  domain.AddDays(base, es[id]),
			EarlyFinish: domain.AddDays(base, ef[id]),
			LateStart:   domain.AddDays(base, ls[id]),
			LateFinish:  domain.AddDays(base, lf[id]),
			SlackDays:   slack,
			Critical:    slack == 0,
		}
		result.Schedules[id] = s
		if s.Critical {
			result.Critical[id] = struct{}{}
		}
	}
	return result, nil
}
