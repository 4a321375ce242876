package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// DateShift records one task moved by a cascade.
type DateShift struct {
	TaskID string
	From   domain.DateRange
	To     domain.DateRange
	Via    domain.DependencyType
}

// Cascade recomputes the dates of every task downstream of taskID, depth
// first, using the graph's current copy of taskID as the source. Each
// successor keeps its duration and starts at the latest date any of its
// predecessor edges allows, so a join reached through several branches never
// breaks an edge it already satisfied. The graph's task copies are updated in
// place and every move is returned in the order it was applied.
//
// A task reached again while it is still on the cascade path aborts the
// cascade with ErrCascadeCycle.
func (g *Graph) Cascade(taskID string, now time.Time) ([]DateShift, error) {
	if _, ok := g.tasks[taskID]; !ok {
		return nil, fmt.Errorf("task %s not in graph", taskID)
	}
	var shifts []DateShift
	onPath := map[string]bool{}
	if err := g.cascadeFrom(taskID, onPath, now, &shifts); err != nil {
		return shifts, err
	}
	return shifts, nil
}

func (g *Graph) cascadeFrom(id string, onPath map[string]bool, now time.Time, shifts *[]DateShift) error {
	onPath[id] = true
	defer delete(onPath, id)

	for _, d := range g.succ[id] {
		if onPath[d.SuccessorID] {
			return fmt.Errorf("%w: %s -> %s", ErrCascadeCycle, id, d.SuccessorID)
		}
		succ := g.tasks[d.SuccessorID]
		from := succ.Range()

		start, via := g.constrainedStart(succ)
		succ.Reschedule(start, now)

		*shifts = append(*shifts, DateShift{TaskID: succ.ID, From: from, To: succ.Range(), Via: via})

		if err := g.cascadeFrom(succ.ID, onPath, now, shifts); err != nil {
			return err
		}
	}
	return nil
}

// constrainedStart is the latest start any predecessor edge of t requires,
// along with the type of the edge that sets it.
func (g *Graph) constrainedStart(t *domain.Task) (time.Time, domain.DependencyType) {
	var (
		start time.Time
		via   domain.DependencyType
	)
	for i, d := range g.pred[t.ID] {
		pred := g.tasks[d.PredecessorID]
		offset := successorStart(d, 0, pred.DurationDays(), t.DurationDays())
		c := domain.AddDays(pred.StartDate, offset)
		if i == 0 || c.After(start) {
			start, via = c, d.Type
		}
	}
	return start, via
}
