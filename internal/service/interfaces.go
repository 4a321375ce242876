package service

import (
	"context"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/importer"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error)
	// Update rejects a range that would strand existing assignments outside it.
	Update(ctx context.Context, p *domain.Project) error
	// Delete refuses while assignments reference the project. soft keeps the
	// row as CANCELLED; otherwise tasks and open items go with it.
	Delete(ctx context.Context, id string, soft bool) error
}

type ResourceService interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error)
	Update(ctx context.Context, r *domain.Resource) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CreateAssignmentRequest carries the inputs of a new booking.
type CreateAssignmentRequest struct {
	ProjectID      string
	ResourceID     string
	Start          time.Time
	End            time.Time
	TravelOutDays  int
	TravelBackDays int
	Override       bool
	OverrideReason string
	Notes          string
}

type AssignmentService interface {
	Create(ctx context.Context, req CreateAssignmentRequest) (*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByResource(ctx context.Context, resourceID string) ([]*domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
	ListInRange(ctx context.Context, window domain.DateRange) ([]*domain.Assignment, error)
}

type UnavailabilityService interface {
	Create(ctx context.Context, u *domain.Unavailability) error
	ListByResource(ctx context.Context, resourceID string) ([]*domain.Unavailability, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AvailabilityService interface {
	IsAvailable(ctx context.Context, resourceID string, start, end time.Time) (bool, error)
	Check(ctx context.Context, resourceID string, window domain.DateRange) (*scheduler.Availability, error)
}

// ConflictReport is the result of an all-pairs sweep over a window.
type ConflictReport struct {
	Window      domain.DateRange
	Assignments []domain.Assignment
	IDs         map[string]struct{}
	Pairs       []scheduler.ConflictPair
}

type ConflictService interface {
	DetectAllConflicts(ctx context.Context, window domain.DateRange) (*ConflictReport, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// UpdateDates moves a task and cascades the shift to its dependents in
	// one transaction. The returned shifts list only tasks that moved.
	UpdateDates(ctx context.Context, id string, start, end time.Time) ([]scheduler.DateShift, error)
	SetProgress(ctx context.Context, id string, pct int) error
	Delete(ctx context.Context, id string) error
	AddDependency(ctx context.Context, d domain.TaskDependency) error
	RemoveDependency(ctx context.Context, predecessorID, successorID string) error
	ValidateDependency(ctx context.Context, predecessorID, successorID string, typ domain.DependencyType) (bool, error)
	CascadeDates(ctx context.Context, id string) ([]scheduler.DateShift, error)
	FindCriticalPath(ctx context.Context, projectID string) (map[string]struct{}, error)
	Schedule(ctx context.Context, projectID string) (*scheduler.CriticalPathResult, error)
}

type OpenItemService interface {
	Create(ctx context.Context, o *domain.OpenItem) error
	Update(ctx context.Context, o *domain.OpenItem) error
	Resolve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.OpenItem, error)
	Invalidate(projectID string)
	InvalidateAll()
}

// ImportResult summarises what an import wrote.
type ImportResult struct {
	Project         *domain.Project
	ResourceCount   int
	AssignmentCount int
	TaskCount       int
	DependencyCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportPlan(ctx context.Context, plan *importer.Plan) (*ImportResult, error)
}
