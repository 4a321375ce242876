package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type ResourceRepo interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	GetByEmail(ctx context.Context, email string) (*domain.Resource, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error)
	Update(ctx context.Context, r *domain.Resource) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByResource(ctx context.Context, resourceID string) ([]*domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
	// ListOverlapping returns assignments whose effective range (travel days
	// included) touches window. An empty resourceID matches every resource.
	ListOverlapping(ctx context.Context, resourceID string, window domain.DateRange) ([]*domain.Assignment, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	CountByResource(ctx context.Context, resourceID string) (int, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
}

type UnavailabilityRepo interface {
	Create(ctx context.Context, u *domain.Unavailability) error
	GetByID(ctx context.Context, id string) (*domain.Unavailability, error)
	ListByResource(ctx context.Context, resourceID string) ([]*domain.Unavailability, error)
	ListOverlapping(ctx context.Context, resourceID string, window domain.DateRange) ([]*domain.Unavailability, error)
	SetApproval(ctx context.Context, id string, state domain.ApprovalState) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type TaskDependencyRepo interface {
	Create(ctx context.Context, d *domain.TaskDependency) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	// ListByProject returns every edge whose predecessor belongs to the project.
	ListByProject(ctx context.Context, projectID string) ([]domain.TaskDependency, error)
	ListSuccessors(ctx context.Context, taskID string) ([]domain.TaskDependency, error)
	ListPredecessors(ctx context.Context, taskID string) ([]domain.TaskDependency, error)
}

type OpenItemRepo interface {
	Create(ctx context.Context, o *domain.OpenItem) error
	GetByID(ctx context.Context, id string) (*domain.OpenItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.OpenItem, error)
	Update(ctx context.Context, o *domain.OpenItem) error
	Delete(ctx context.Context, id string) error
}
