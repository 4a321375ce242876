package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(start, end string) domain.DateRange {
	return domain.NewDateRange(testutil.MustDate(start), testutil.MustDate(end))
}

func TestUnavailabilityService_CreateDefaults(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := NewUnavailabilityService(e.leave, e.uow)
	r := e.seedResource(t, "Alice")

	u := &domain.Unavailability{
		ResourceID: r.ID,
		StartDate:  testutil.MustDate("2024-01-10"),
		EndDate:    testutil.MustDate("2024-01-12"),
	}
	require.NoError(t, svc.Create(ctx, u))

	list, err := svc.ListByResource(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.UnavailabilityOther, list[0].Type)
	assert.Equal(t, domain.ApprovalPending, list[0].Approval)
}

func TestUnavailabilityService_CreateValidation(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := NewUnavailabilityService(e.leave, e.uow)
	r := e.seedResource(t, "Alice")

	bad := testutil.NewTestUnavailability(r.ID, "2024-01-12", "2024-01-10")
	requireRuleError(t, svc.Create(ctx, bad), KindValidation)

	odd := testutil.NewTestUnavailability(r.ID, "2024-01-10", "2024-01-12", testutil.WithLeaveType("SABBATICAL"))
	requireRuleError(t, svc.Create(ctx, odd), KindValidation)

	orphan := testutil.NewTestUnavailability("ghost", "2024-01-10", "2024-01-12")
	requireRuleError(t, svc.Create(ctx, orphan), KindNotFound)
}

func TestUnavailabilityService_ApproveRejectDelete(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := NewUnavailabilityService(e.leave, e.uow)
	avail := NewAvailabilityService(e.assignments, e.leave, nil)

	r := e.seedResource(t, "Alice")
	u := e.seedLeave(t, r.ID, "2024-01-10", "2024-01-20", testutil.WithApproval(domain.ApprovalPending))

	free, err := avail.IsAvailable(ctx, r.ID, testutil.MustDate("2024-01-15"), testutil.MustDate("2024-01-16"))
	require.NoError(t, err)
	assert.False(t, free, "pending leave blocks")

	require.NoError(t, svc.Reject(ctx, u.ID))
	free, err = avail.IsAvailable(ctx, r.ID, testutil.MustDate("2024-01-15"), testutil.MustDate("2024-01-16"))
	require.NoError(t, err)
	assert.True(t, free, "rejected leave does not")

	require.NoError(t, svc.Approve(ctx, u.ID))
	got, err := e.leave.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, got.Approval)

	require.NoError(t, svc.Delete(ctx, u.ID))
	requireRuleError(t, svc.Delete(ctx, u.ID), KindNotFound)
	requireRuleError(t, svc.Approve(ctx, u.ID), KindNotFound)
}

func TestAvailabilityService_Check(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	svc := NewAvailabilityService(e.assignments, e.leave, nil)

	p := e.seedProject(t)
	r := e.seedResource(t, "Alice")
	booked := e.seedAssignment(t, p.ID, r.ID, "2024-01-01", "2024-01-05", testutil.WithTravel(0, 2))
	e.seedLeave(t, r.ID, "2024-01-10", "2024-01-20", testutil.WithLeaveType(domain.UnavailabilityTraining))

	res, err := svc.Check(ctx, r.ID, span("2024-01-07", "2024-01-07"))
	require.NoError(t, err)
	assert.False(t, res.Available, "travel back days run to Jan 7")
	require.Len(t, res.BlockingAssignments, 1)
	assert.Equal(t, booked.ID, res.BlockingAssignments[0].ID)

	res, err = svc.Check(ctx, r.ID, span("2024-01-15", "2024-01-16"))
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, []domain.UnavailabilityType{domain.UnavailabilityTraining}, res.BlockingTypes())

	res, err = svc.Check(ctx, r.ID, span("2024-01-08", "2024-01-09"))
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = svc.Check(ctx, r.ID, span("2024-01-09", "2024-01-08"))
	requireRuleError(t, err, KindValidation)
}

func TestConflictService_DetectAllConflicts(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewConflictService(e.assignments, obs)

	p := e.seedProject(t)
	alice := e.seedResource(t, "Alice")
	bo := e.seedResource(t, "Bo")
	a1 := e.seedAssignment(t, p.ID, alice.ID, "2024-01-01", "2024-01-05")
	a2 := e.seedAssignment(t, p.ID, alice.ID, "2024-01-04", "2024-01-08", testutil.WithOverride("double shift"))
	e.seedAssignment(t, p.ID, alice.ID, "2024-01-20", "2024-01-22")
	e.seedAssignment(t, p.ID, bo.ID, "2024-01-01", "2024-01-05")

	report, err := svc.DetectAllConflicts(ctx, span("2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	assert.Len(t, report.Assignments, 4)
	assert.Len(t, report.IDs, 2)
	assert.Contains(t, report.IDs, a1.ID)
	assert.Contains(t, report.IDs, a2.ID)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, alice.ID, report.Pairs[0].ResourceID)
	assert.Equal(t, span("2024-01-04", "2024-01-05"), report.Pairs[0].Overlap)

	ev := obs.last()
	assert.Equal(t, "detect-conflicts", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 2, ev.Fields["conflicts"])
}

func TestConflictService_WindowLimitsSweep(t *testing.T) {
	e := setupEnv(t)
	svc := NewConflictService(e.assignments)

	p := e.seedProject(t)
	r := e.seedResource(t, "Alice")
	e.seedAssignment(t, p.ID, r.ID, "2024-02-01", "2024-02-05", testutil.WithOverride("a"))
	e.seedAssignment(t, p.ID, r.ID, "2024-02-03", "2024-02-06", testutil.WithOverride("b"))

	report, err := svc.DetectAllConflicts(context.Background(), span("2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	assert.Empty(t, report.IDs)
	assert.Empty(t, report.Pairs)

	_, err = svc.DetectAllConflicts(context.Background(), span("2024-01-31", "2024-01-01"))
	requireRuleError(t, err, KindValidation)
}
