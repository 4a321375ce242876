package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriticalPath_LinearChainAllCritical(t *testing.T) {
	g := NewGraph(
		[]domain.Task{makeTask("A", 1, 5), makeTask("B", 6, 10), makeTask("C", 11, 15)},
		[]domain.TaskDependency{
			dep("A", "B", domain.FinishToStart, 0),
			dep("B", "C", domain.FinishToStart, 0),
		},
	)

	res, err := g.CriticalPath()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, SortedIDs(res.Critical))
	assert.Equal(t, []string{"A", "B", "C"}, res.Order)
	assert.Equal(t, day(time.January, 15), res.ProjectEnd)
	for _, id := range res.Order {
		assert.Zero(t, res.Schedules[id].SlackDays, "task %s", id)
	}
}

func TestCriticalPath_FloatExcludesTask(t *testing.T) {
	// B cannot start before Jan 8, so A has two days of float.
	g := NewGraph(
		[]domain.Task{makeTask("A", 1, 5), makeTask("B", 8, 12), makeTask("C", 13, 17)},
		[]domain.TaskDependency{
			dep("A", "B", domain.FinishToStart, 0),
			dep("B", "C", domain.FinishToStart, 0),
		},
	)

	res, err := g.CriticalPath()
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, SortedIDs(res.Critical))
	a := res.Schedules["A"]
	assert.Equal(t, 2, a.SlackDays)
	assert.Equal(t, day(time.January, 3), a.LateStart)
	assert.Equal(t, day(time.January, 7), a.LateFinish)
}

func TestCriticalPath_ParallelBranch(t *testing.T) {
	// A -> B (long) -> D and A -> C (short) -> D: C carries float.
	g := NewGraph(
		[]domain.Task{makeTask("A", 1, 2), makeTask("B", 3, 10), makeTask("C", 3, 4), makeTask("D", 11, 12)},
		[]domain.TaskDependency{
			dep("A", "B", domain.FinishToStart, 0),
			dep("A", "C", domain.FinishToStart, 0),
			dep("B", "D", domain.FinishToStart, 0),
			dep("C", "D", domain.FinishToStart, 0),
		},
	)

	res, err := g.CriticalPath()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "D"}, SortedIDs(res.Critical))
	assert.Equal(t, 6, res.Schedules["C"].SlackDays, "intermediate tasks get late dates too")
}

func TestCriticalPath_PushesLateStartingSuccessor(t *testing.T) {
	// B is planned too early for its predecessor; the forward pass moves it.
	g := NewGraph(
		[]domain.Task{makeTask("A", 1, 5), makeTask("B", 2, 3)},
		[]domain.TaskDependency{dep("A", "B", domain.FinishToStart, 1)},
	)

	res, err := g.CriticalPath()
	require.NoError(t, err)

	b := res.Schedules["B"]
	assert.Equal(t, day(time.January, 7), b.EarlyStart)
	assert.Equal(t, day(time.January, 8), b.EarlyFinish)
	assert.Len(t, res.Critical, 2)
}

func TestCriticalPath_StartToStartAndFinishToFinish(t *testing.T) {
	g := NewGraph(
		[]domain.Task{makeTask("A", 1, 10), makeTask("B", 1, 3), makeTask("C", 1, 5)},
		[]domain.TaskDependency{
			dep("A", "B", domain.StartToStart, 2),
			dep("A", "C", domain.FinishToFinish, 0),
		},
	)

	res, err := g.CriticalPath()
	require.NoError(t, err)

	assert.Equal(t, day(time.January, 3), res.Schedules["B"].EarlyStart)
	assert.Equal(t, day(time.January, 6), res.Schedules["C"].EarlyStart)
	assert.Equal(t, day(time.January, 10), res.Schedules["C"].EarlyFinish)
	assert.Contains(t, res.Critical, "A")
	assert.Contains(t, res.Critical, "C")
	assert.NotContains(t, res.Critical, "B")
}

func TestCriticalPath_Empty(t *testing.T) {
	res, err := NewGraph(nil, nil).CriticalPath()
	require.NoError(t, err)
	assert.Empty(t, res.Critical)
	assert.Empty(t, res.Order)
}

func TestCriticalPath_Cycle(t *testing.T) {
	g := NewGraph([]domain.Task{makeTask("A", 1, 2), makeTask("B", 3, 4)}, nil)
	g.AddDependency(dep("A", "B", domain.FinishToStart, 0))
	g.AddDependency(dep("B", "A", domain.FinishToStart, 0))

	_, err := g.CriticalPath()
	assert.ErrorIs(t, err, ErrGraphCycle)
}
