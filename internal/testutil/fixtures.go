package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var projectSeq atomic.Int64

// Fixed clock for fixtures so date assertions stay deterministic.
var FixtureNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// MustDate parses a YYYY-MM-DD literal and panics on malformed input.
func MustDate(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NextProjectID returns a unique, well-formed project key.
func NextProjectID() string {
	return fmt.Sprintf("TST-2024-%04d", projectSeq.Add(1))
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectRange(start, end string) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = MustDate(start)
		p.EndDate = MustDate(end)
	}
}

func WithManager(resourceID string) ProjectOption {
	return func(p *domain.Project) {
		p.ManagerID = &resourceID
	}
}

func WithFinancials(budget, revenue, costs string) ProjectOption {
	return func(p *domain.Project) {
		b := decimal.RequireFromString(budget)
		r := decimal.RequireFromString(revenue)
		c := decimal.RequireFromString(costs)
		p.Budget, p.Revenue, p.Costs = &b, &r, &c
	}
}

// NewTestProject returns a planned project running through Q1 2024.
func NewTestProject(description string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:          NextProjectID(),
		Description: description,
		Status:      domain.ProjectPlanned,
		StartDate:   MustDate("2024-01-01"),
		EndDate:     MustDate("2024-03-31"),
		CreatedAt:   FixtureNow,
		UpdatedAt:   FixtureNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resource options
type ResourceOption func(*domain.Resource)

func WithEmail(email string) ResourceOption {
	return func(r *domain.Resource) {
		r.Email = &email
	}
}

func WithCategory(c domain.ResourceCategory) ResourceOption {
	return func(r *domain.Resource) {
		r.Category = c
	}
}

func Inactive() ResourceOption {
	return func(r *domain.Resource) {
		r.Active = false
	}
}

func NewTestResource(name string, opts ...ResourceOption) *domain.Resource {
	r := &domain.Resource{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  domain.CategoryFieldTechnician,
		Active:    true,
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Assignment options
type AssignmentOption func(*domain.Assignment)

func WithTravel(out, back int) AssignmentOption {
	return func(a *domain.Assignment) {
		a.TravelOutDays = out
		a.TravelBackDays = back
	}
}

func WithOverride(reason string) AssignmentOption {
	return func(a *domain.Assignment) {
		a.Override = true
		a.OverrideReason = reason
	}
}

func NewTestAssignment(projectID, resourceID, start, end string, opts ...AssignmentOption) *domain.Assignment {
	a := &domain.Assignment{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		ResourceID: resourceID,
		StartDate:  MustDate(start),
		EndDate:    MustDate(end),
		CreatedAt:  FixtureNow,
		UpdatedAt:  FixtureNow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Unavailability options
type UnavailabilityOption func(*domain.Unavailability)

func WithLeaveType(t domain.UnavailabilityType) UnavailabilityOption {
	return func(u *domain.Unavailability) {
		u.Type = t
	}
}

func WithApproval(s domain.ApprovalState) UnavailabilityOption {
	return func(u *domain.Unavailability) {
		u.Approval = s
	}
}

// NewTestUnavailability returns an approved vacation.
func NewTestUnavailability(resourceID, start, end string, opts ...UnavailabilityOption) *domain.Unavailability {
	u := &domain.Unavailability{
		ID:         uuid.New().String(),
		ResourceID: resourceID,
		Type:       domain.UnavailabilityVacation,
		StartDate:  MustDate(start),
		EndDate:    MustDate(end),
		Approval:   domain.ApprovalApproved,
		CreatedAt:  FixtureNow,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPhase(parentID string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &parentID
	}
}

func NewTestTask(projectID, title, start, end string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		StartDate: MustDate(start),
		EndDate:   MustDate(end),
		Status:    domain.TaskNotStarted,
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OpenItem options
type OpenItemOption func(*domain.OpenItem)

func WithPriority(p domain.OpenItemPriority) OpenItemOption {
	return func(o *domain.OpenItem) {
		o.Priority = p
	}
}

func WithDueDate(d string) OpenItemOption {
	return func(o *domain.OpenItem) {
		t := MustDate(d)
		o.DueDate = &t
	}
}

func WithOwner(resourceID string) OpenItemOption {
	return func(o *domain.OpenItem) {
		o.OwnerID = &resourceID
	}
}

func NewTestOpenItem(projectID, title string, opts ...OpenItemOption) *domain.OpenItem {
	o := &domain.OpenItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Priority:  domain.PriorityMedium,
		Status:    domain.OpenItemOpen,
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
