package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/scheduler"
	"github.com/alexanderramin/crewplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(e *testEnv, observers ...UseCaseObserver) TaskService {
	return NewTaskService(e.tasks, e.deps, e.uow, observers...)
}

func TestTaskService_Create(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)
	p := e.seedProject(t)

	phase := &domain.Task{ProjectID: p.ID, Title: "Installation", StartDate: testutil.MustDate("2024-01-08"), EndDate: testutil.MustDate("2024-01-31")}
	require.NoError(t, svc.Create(ctx, phase))
	assert.NotEmpty(t, phase.ID)
	assert.Equal(t, domain.TaskNotStarted, phase.Status)

	child := &domain.Task{ProjectID: p.ID, ParentID: &phase.ID, Title: "Cable pull", StartDate: testutil.MustDate("2024-01-08"), EndDate: testutil.MustDate("2024-01-10")}
	require.NoError(t, svc.Create(ctx, child))

	list, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTaskService_Create_Validation(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)
	p := e.seedProject(t)
	other := e.seedProject(t)
	foreign := e.seedTask(t, other.ID, "Elsewhere", "2024-01-01", "2024-01-02")

	requireRuleError(t, svc.Create(ctx, testutil.NewTestTask(p.ID, " ", "2024-01-01", "2024-01-02")), KindValidation)
	requireRuleError(t, svc.Create(ctx, testutil.NewTestTask(p.ID, "Late", "2024-01-05", "2024-01-02")), KindValidation)
	requireRuleError(t, svc.Create(ctx, testutil.NewTestTask(p.ID, "Odd", "2024-01-01", "2024-01-02", testutil.WithTaskStatus("PAUSED"))), KindValidation)

	tooFar := testutil.NewTestTask(p.ID, "Over", "2024-01-01", "2024-01-02")
	tooFar.PercentComplete = 101
	requireRuleError(t, svc.Create(ctx, tooFar), KindValidation)

	requireRuleError(t, svc.Create(ctx, testutil.NewTestTask("NOP-2024-0001", "Orphan", "2024-01-01", "2024-01-02")), KindNotFound)
	requireRuleError(t, svc.Create(ctx, testutil.NewTestTask(p.ID, "Child", "2024-01-01", "2024-01-02", testutil.WithPhase(foreign.ID))), KindValidation)
}

func TestTaskService_UpdateDates_CascadesChain(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := newTaskService(e, obs)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "Survey", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "Install", "2024-01-03", "2024-01-04")
	c := e.seedTask(t, p.ID, "Test", "2024-01-05", "2024-01-06")
	unrelated := e.seedTask(t, p.ID, "Paperwork", "2024-01-01", "2024-01-03")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)
	e.seedDep(t, b.ID, c.ID, domain.FinishToStart, 0)

	shifts, err := svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-10"), testutil.MustDate("2024-01-11"))
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, b.ID, shifts[0].TaskID)
	assert.Equal(t, c.ID, shifts[1].TaskID)

	for id, want := range map[string]domain.DateRange{
		a.ID:         span("2024-01-10", "2024-01-11"),
		b.ID:         span("2024-01-12", "2024-01-13"),
		c.ID:         span("2024-01-14", "2024-01-15"),
		unrelated.ID: span("2024-01-01", "2024-01-03"),
	} {
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Range(), "task %s", got.Title)
	}

	ev := obs.last()
	assert.Equal(t, "update-task-dates", ev.Name)
	assert.Equal(t, 2, ev.Fields["shifted"])
}

func TestTaskService_UpdateDates_LagAndTypes(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	pred := e.seedTask(t, p.ID, "Pour", "2024-01-01", "2024-01-05")
	cure := e.seedTask(t, p.ID, "Cure", "2024-01-20", "2024-01-22")
	inspect := e.seedTask(t, p.ID, "Inspect", "2024-01-20", "2024-01-20")
	e.seedDep(t, pred.ID, cure.ID, domain.FinishToStart, 2)
	e.seedDep(t, pred.ID, inspect.ID, domain.StartToStart, 1)

	_, err := svc.UpdateDates(ctx, pred.ID, testutil.MustDate("2024-01-05"), testutil.MustDate("2024-01-09"))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, cure.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-12", "2024-01-14"), got.Range())

	got, err = svc.GetByID(ctx, inspect.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-06", "2024-01-06"), got.Range())
}

func TestTaskService_UpdateDates_UnchangedSuccessorNotReported(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)

	shifts, err := svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-01"), testutil.MustDate("2024-01-02"))
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestTaskService_UpdateDates_DiamondJoinWaitsForLongBranch(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "Survey", "2024-01-01", "2024-01-01")
	long := e.seedTask(t, p.ID, "Cable pull", "2024-01-02", "2024-01-20")
	short := e.seedTask(t, p.ID, "Permit", "2024-01-02", "2024-01-02")
	join := e.seedTask(t, p.ID, "Energise", "2024-01-21", "2024-01-22")
	e.seedDep(t, a.ID, long.ID, domain.FinishToStart, 0)
	e.seedDep(t, a.ID, short.ID, domain.FinishToStart, 0)
	e.seedDep(t, long.ID, join.ID, domain.FinishToStart, 0)
	e.seedDep(t, short.ID, join.ID, domain.FinishToStart, 0)

	_, err := svc.CascadeDates(ctx, a.ID)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, join.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-21", "2024-01-22"), got.Range(), "the join still starts after the long branch")

	_, err = svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-03"), testutil.MustDate("2024-01-03"))
	require.NoError(t, err)

	got, err = svc.GetByID(ctx, join.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-23", "2024-01-24"), got.Range())
}

func TestTaskService_UpdateDates_Errors(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)
	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")

	_, err := svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-05"), testutil.MustDate("2024-01-01"))
	requireRuleError(t, err, KindValidation)

	_, err = svc.UpdateDates(ctx, "ghost", testutil.MustDate("2024-01-01"), testutil.MustDate("2024-01-02"))
	requireRuleError(t, err, KindNotFound)
}

func TestTaskService_UpdateDates_CycleInStoreRollsBack(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	// Written straight to the store, bypassing AddDependency's cycle check.
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)
	e.seedDep(t, b.ID, a.ID, domain.FinishToStart, 0)

	_, err := svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-10"), testutil.MustDate("2024-01-11"))
	requireRuleError(t, err, KindConstraint)
	assert.Contains(t, err.Error(), scheduler.ErrCascadeCycle.Error())

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-01", "2024-01-02"), got.Range(), "the move is rolled back with the cascade")
}

func TestTaskService_UpdateDates_WriteFailureRollsBack(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)

	// First exec moves A, second saves the cascaded B.
	uow := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: 2}
	svc := NewTaskService(e.tasks, e.deps, uow)

	_, err := svc.UpdateDates(ctx, a.ID, testutil.MustDate("2024-01-10"), testutil.MustDate("2024-01-11"))
	require.ErrorIs(t, err, testutil.ErrInjected)

	got, err := e.tasks.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, span("2024-01-01", "2024-01-02"), got.Range())
}

func TestTaskService_CascadeDates(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-05")
	b := e.seedTask(t, p.ID, "B", "2024-01-02", "2024-01-03")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)

	shifts, err := svc.CascadeDates(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, span("2024-01-06", "2024-01-07"), shifts[0].To)

	_, err = svc.CascadeDates(ctx, "ghost")
	requireRuleError(t, err, KindNotFound)
}

func TestTaskService_SetProgress(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)
	p := e.seedProject(t)
	task := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-05")

	require.NoError(t, svc.SetProgress(ctx, task.ID, 40))
	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.PercentComplete)
	assert.Equal(t, domain.TaskInProgress, got.Status)

	require.NoError(t, svc.SetProgress(ctx, task.ID, 100))
	got, err = svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, got.Status)

	requireRuleError(t, svc.SetProgress(ctx, task.ID, -1), KindValidation)
	requireRuleError(t, svc.SetProgress(ctx, "ghost", 10), KindNotFound)
}

func TestTaskService_AddDependency(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	other := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	c := e.seedTask(t, p.ID, "C", "2024-01-05", "2024-01-06")
	x := e.seedTask(t, other.ID, "X", "2024-01-01", "2024-01-02")

	require.NoError(t, svc.AddDependency(ctx, domain.TaskDependency{PredecessorID: a.ID, SuccessorID: b.ID}))
	require.NoError(t, svc.AddDependency(ctx, domain.TaskDependency{PredecessorID: b.ID, SuccessorID: c.ID, Type: domain.StartToStart, LagDays: 1}))

	succ, err := e.deps.ListSuccessors(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, succ, 1)
	assert.Equal(t, domain.FinishToStart, succ[0].Type, "type defaults to finish-to-start")

	cases := []struct {
		name string
		dep  domain.TaskDependency
		kind Kind
	}{
		{"direct cycle", domain.TaskDependency{PredecessorID: b.ID, SuccessorID: a.ID}, KindValidation},
		{"transitive cycle", domain.TaskDependency{PredecessorID: c.ID, SuccessorID: a.ID}, KindValidation},
		{"self", domain.TaskDependency{PredecessorID: a.ID, SuccessorID: a.ID}, KindValidation},
		{"unknown type", domain.TaskDependency{PredecessorID: a.ID, SuccessorID: c.ID, Type: "AFTER"}, KindValidation},
		{"cross project", domain.TaskDependency{PredecessorID: a.ID, SuccessorID: x.ID}, KindValidation},
		{"duplicate", domain.TaskDependency{PredecessorID: a.ID, SuccessorID: b.ID}, KindDuplicate},
		{"missing task", domain.TaskDependency{PredecessorID: a.ID, SuccessorID: "ghost"}, KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireRuleError(t, svc.AddDependency(ctx, tc.dep), tc.kind)
		})
	}

	edges, err := e.deps.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestTaskService_ValidateAndRemoveDependency(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)

	ok, err := svc.ValidateDependency(ctx, b.ID, a.ID, domain.FinishToStart)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ValidateDependency(ctx, "ghost", a.ID, domain.FinishToStart)
	require.NoError(t, err)
	assert.False(t, ok, "missing tasks are not an error")

	require.NoError(t, svc.RemoveDependency(ctx, a.ID, b.ID))
	requireRuleError(t, svc.RemoveDependency(ctx, a.ID, b.ID), KindNotFound)

	ok, err = svc.ValidateDependency(ctx, b.ID, a.ID, domain.FinishToStart)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTaskService_FindCriticalPath(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	long := e.seedTask(t, p.ID, "Long", "2024-01-03", "2024-01-10")
	short := e.seedTask(t, p.ID, "Short", "2024-01-03", "2024-01-04")
	d := e.seedTask(t, p.ID, "D", "2024-01-11", "2024-01-12")
	e.seedDep(t, a.ID, long.ID, domain.FinishToStart, 0)
	e.seedDep(t, a.ID, short.ID, domain.FinishToStart, 0)
	e.seedDep(t, long.ID, d.ID, domain.FinishToStart, 0)
	e.seedDep(t, short.ID, d.ID, domain.FinishToStart, 0)

	critical, err := svc.FindCriticalPath(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, critical, 3)
	assert.Contains(t, critical, a.ID)
	assert.Contains(t, critical, long.ID)
	assert.Contains(t, critical, d.ID)
	assert.NotContains(t, critical, short.ID)

	res, err := svc.Schedule(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Schedules[short.ID].SlackDays)
	assert.Equal(t, testutil.MustDate("2024-01-12"), res.ProjectEnd)
}

func TestTaskService_Schedule_CycleIsConstraintError(t *testing.T) {
	e := setupEnv(t)
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)
	e.seedDep(t, b.ID, a.ID, domain.FinishToStart, 0)

	_, err := svc.Schedule(context.Background(), p.ID)
	requireRuleError(t, err, KindConstraint)
}

func TestTaskService_Delete_DropsEdges(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := newTaskService(e)

	p := e.seedProject(t)
	a := e.seedTask(t, p.ID, "A", "2024-01-01", "2024-01-02")
	b := e.seedTask(t, p.ID, "B", "2024-01-03", "2024-01-04")
	e.seedDep(t, a.ID, b.ID, domain.FinishToStart, 0)

	require.NoError(t, svc.Delete(ctx, a.ID))
	preds, err := e.deps.ListPredecessors(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, preds)
	requireRuleError(t, svc.Delete(ctx, a.ID), KindNotFound)
}
