package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/importer"
	"github.com/alexanderramin/crewplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *importer.Plan {
	return &importer.Plan{
		Project: importer.ProjectPlan{ID: "IMP-2024-0001", Description: "Import", Start: "2024-01-01", End: "2024-03-31"},
		Resources: []importer.ResourcePlan{
			{Ref: "alice", Name: "Alice", Email: "alice@example.com"},
			{Ref: "bo", Name: "Bo"},
		},
		Assignments: []importer.AssignmentPlan{
			{Resource: "alice", Start: "2024-01-08", End: "2024-01-12"},
			{Resource: "bo", Start: "2024-01-08", End: "2024-01-12"},
		},
		Tasks: []importer.TaskPlan{
			{Ref: "prep", Title: "Prep", Start: "2024-01-08", End: "2024-01-09"},
			{Ref: "install", Title: "Install", Start: "2024-01-10", End: "2024-01-12"},
		},
		Dependencies: []importer.DependencyPlan{{From: "prep", To: "install", Type: "FS"}},
		OpenItems:    []importer.OpenItemPlan{{Title: "Permit", Owner: "alice"}},
	}
}

func TestImportService_ImportPlan(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewImportService(e.uow, nil, obs)

	res, err := svc.ImportPlan(ctx, samplePlan())
	require.NoError(t, err)
	assert.Equal(t, "IMP-2024-0001", res.Project.ID)
	assert.Equal(t, 2, res.ResourceCount)
	assert.Equal(t, 2, res.AssignmentCount)
	assert.Equal(t, 2, res.TaskCount)
	assert.Equal(t, 1, res.DependencyCount)

	tasks, err := e.tasks.ListByProject(ctx, "IMP-2024-0001")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	items, err := e.items.ListByProject(ctx, "IMP-2024-0001")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].OwnerID)

	alice, err := e.resources.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, *items[0].OwnerID)

	assert.Equal(t, "import-plan", obs.last().Name)
	assert.True(t, obs.last().Success)
}

func TestImportService_ReusesResourceByEmail(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	existing := e.seedResource(t, "Alice", testutil.WithEmail("alice@example.com"))

	res, err := NewImportService(e.uow, nil).ImportPlan(ctx, samplePlan())
	require.NoError(t, err)
	assert.Equal(t, 1, res.ResourceCount, "only Bo is new")

	booked, err := e.assignments.ListByResource(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestImportService_ConflictRollsBackEverything(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	other := e.seedProject(t)
	alice := e.seedResource(t, "Alice", testutil.WithEmail("alice@example.com"))
	e.seedAssignment(t, other.ID, alice.ID, "2024-01-10", "2024-01-11")

	_, err := NewImportService(e.uow, nil).ImportPlan(ctx, samplePlan())
	requireRuleError(t, err, KindConflict)

	_, err = e.projects.GetByID(ctx, "IMP-2024-0001")
	assert.Error(t, err, "project insert rolled back")
	all, err := e.resources.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1, "Bo was not kept")
}

func TestImportService_ConflictWithinFile(t *testing.T) {
	e := setupEnv(t)
	plan := samplePlan()
	plan.Assignments = append(plan.Assignments, importer.AssignmentPlan{Resource: "bo", Start: "2024-01-12", End: "2024-01-15"})

	_, err := NewImportService(e.uow, nil).ImportPlan(context.Background(), plan)
	requireRuleError(t, err, KindConflict)
}

func TestImportService_OverrideRowSkipsConflict(t *testing.T) {
	e := setupEnv(t)
	plan := samplePlan()
	plan.Assignments = append(plan.Assignments, importer.AssignmentPlan{
		Resource: "bo", Start: "2024-01-12", End: "2024-01-15", Override: true, OverrideReason: "handover",
	})

	res, err := NewImportService(e.uow, nil).ImportPlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 3, res.AssignmentCount)
}

func TestImportService_InvalidPlan(t *testing.T) {
	e := setupEnv(t)
	plan := samplePlan()
	plan.Project.ID = "bad"
	plan.Tasks[1].End = "2024-01-01"

	_, err := NewImportService(e.uow, nil).ImportPlan(context.Background(), plan)
	re := requireRuleError(t, err, KindValidation)
	assert.Contains(t, re.Message, "2 problem(s)")
}

func TestImportService_DuplicateProject(t *testing.T) {
	e := setupEnv(t)
	e.seedProject(t, testutil.WithProjectID("IMP-2024-0001"))

	_, err := NewImportService(e.uow, nil).ImportPlan(context.Background(), samplePlan())
	requireRuleError(t, err, KindDuplicate)
}

func TestImportService_ImportFile(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := NewImportService(e.uow, nil)

	res, err := svc.ImportFile(ctx, "../importer/testdata/substation.yaml")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, res.Project.Status)
	assert.Equal(t, 3, res.TaskCount)

	critical, err := NewTaskService(e.tasks, e.deps, e.uow).FindCriticalPath(ctx, res.Project.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, critical)

	_, err = svc.ImportFile(ctx, "../importer/testdata/missing.yaml")
	assert.Error(t, err)
}

func TestImportService_WriteFailureRollsBack(t *testing.T) {
	e := setupEnv(t)
	uow := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: 4}

	_, err := NewImportService(uow, nil).ImportPlan(context.Background(), samplePlan())
	require.ErrorIs(t, err, testutil.ErrInjected)

	projects, err := e.projects.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
