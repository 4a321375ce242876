package scheduler

import (
	"errors"
	"sort"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// ErrCascadeCycle is returned when a date cascade re-enters a task that is
// already on the current cascade path.
var ErrCascadeCycle = errors.New("dependency cycle detected during cascade")

// ErrGraphCycle is returned when the task graph cannot be ordered.
var ErrGraphCycle = errors.New("task graph contains a cycle")

// Graph is an in-memory task dependency graph. It holds copies of the tasks
// so cascades can be computed without touching the caller's slices.
type Graph struct {
	tasks map[string]*domain.Task
	succ  map[string][]domain.TaskDependency
	pred  map[string][]domain.TaskDependency
}

// NewGraph builds a graph from tasks and dependencies. Edges that reference
// unknown tasks are dropped.
func NewGraph(tasks []domain.Task, deps []domain.TaskDependency) *Graph {
	g := &Graph{
		tasks: make(map[string]*domain.Task, len(tasks)),
		succ:  make(map[string][]domain.TaskDependency),
		pred:  make(map[string][]domain.TaskDependency),
	}
	for i := range tasks {
		t := tasks[i]
		g.tasks[t.ID] = &t
	}
	for _, d := range deps {
		if g.tasks[d.PredecessorID] == nil || g.tasks[d.SuccessorID] == nil {
			continue
		}
		g.succ[d.PredecessorID] = append(g.succ[d.PredecessorID], d)
		g.pred[d.SuccessorID] = append(g.pred[d.SuccessorID], d)
	}
	for id := range g.succ {
		edges := g.succ[id]
		sort.Slice(edges, func(i, j int) bool { return edges[i].SuccessorID < edges[j].SuccessorID })
	}
	return g
}

// Task returns the graph's copy of a task.
func (g *Graph) Task(id string) (*domain.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

func (g *Graph) Successors(id string) []domain.TaskDependency {
	return g.succ[id]
}

func (g *Graph) Predecessors(id string) []domain.TaskDependency {
	return g.pred[id]
}

// Reaches reports whether to is reachable from from by following successor edges.
func (g *Graph) Reaches(from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range g.succ[id] {
			if d.SuccessorID == to {
				return true
			}
			if !seen[d.SuccessorID] {
				seen[d.SuccessorID] = true
				stack = append(stack, d.SuccessorID)
			}
		}
	}
	return false
}

// ValidateDependency reports whether the edge predecessor -> successor may be
// added: both tasks must exist, differ, the type must be known, and the
// successor must not already reach the predecessor.
func (g *Graph) ValidateDependency(predecessorID, successorID string, depType domain.DependencyType) bool {
	if g.tasks[predecessorID] == nil || g.tasks[successorID] == nil {
		return false
	}
	if predecessorID == successorID {
		return false
	}
	if !domain.ValidDependencyTypes[depType] {
		return false
	}
	return !g.Reaches(successorID, predecessorID)
}

// AddDependency inserts an edge without validation. Callers validate first.
func (g *Graph) AddDependency(d domain.TaskDependency) {
	g.succ[d.PredecessorID] = append(g.succ[d.PredecessorID], d)
	g.pred[d.SuccessorID] = append(g.pred[d.SuccessorID], d)
}

// topoOrder returns task ids in dependency order (Kahn), ties broken by
// planned start then id so results are deterministic.
func (g *Graph) topoOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.tasks))
	for id := range g.tasks {
		indeg[id] = len(g.pred[id])
	}

	var ready []string
	for id, n := range indeg {
		if n == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.tasks))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			a, b := g.tasks[ready[i]], g.tasks[ready[j]]
			if !a.StartDate.Equal(b.StartDate) {
				return a.StartDate.Before(b.StartDate)
			}
			return a.ID < b.ID
		})
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, d := range g.succ[id] {
			indeg[d.SuccessorID]--
			if indeg[d.SuccessorID] == 0 {
				ready = append(ready, d.SuccessorID)
			}
		}
	}

	if len(order) != len(g.tasks) {
		return nil, ErrGraphCycle
	}
	return order, nil
}

// successorStart is the earliest successor start offset an edge allows, given
// predecessor start/finish offsets and the successor's duration in days.
func successorStart(d domain.TaskDependency, predStart, predFinish, succDuration int) int {
	switch d.Type {
	case domain.StartToStart:
		return predStart + d.LagDays
	case domain.FinishToFinish:
		return predFinish + d.LagDays - succDuration
	case domain.StartToFinish:
		return predStart + d.LagDays - succDuration
	default: // FinishToStart
		return predFinish + d.LagDays + 1
	}
}

// predecessorLateFinish is the latest predecessor finish offset an edge allows,
// given successor late start/finish offsets and the predecessor's duration.
func predecessorLateFinish(d domain.TaskDependency, succLateStart, succLateFinish, predDuration int) int {
	switch d.Type {
	case domain.StartToStart:
		return succLateStart - d.LagDays + predDuration
	case domain.FinishToFinish:
		return succLateFinish - d.LagDays
	case domain.StartToFinish:
		return succLateFinish - d.LagDays + predDuration
	default: // FinishToStart
		return succLateStart - d.LagDays - 1
	}
}
