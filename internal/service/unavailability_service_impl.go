package service

import (
	"context"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/google/uuid"
)

type unavailabilityService struct {
	leave    repository.UnavailabilityRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewUnavailabilityService(leave repository.UnavailabilityRepo, uow db.UnitOfWork, observers ...UseCaseObserver) UnavailabilityService {
	return &unavailabilityService{leave: leave, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create records leave. New records start PENDING unless an approval state is
// given; pending leave already blocks bookings.
func (s *unavailabilityService) Create(ctx context.Context, u *domain.Unavailability) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	fields := map[string]any{"resource": u.ResourceID}
	defer observe(ctx, s.observer, "create-unavailability", time.Now(), fields, &err)

	if u.Type == "" {
		u.Type = domain.UnavailabilityOther
	}
	fields["type"] = string(u.Type)
	if !domain.ValidUnavailabilityTypes[u.Type] {
		return validationErr("unavailability", u.ID, "unknown type %q", u.Type)
	}
	if u.Approval == "" {
		u.Approval = domain.ApprovalPending
	}
	u.StartDate, u.EndDate = domain.Day(u.StartDate), domain.Day(u.EndDate)
	if err := u.Range().Validate(); err != nil {
		return validationErr("unavailability", u.ID, "%s", err.Error())
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteResourceRepo(tx).GetByID(ctx, u.ResourceID); err != nil {
			return mapNotFound(err, "resource", u.ResourceID)
		}
		u.CreatedAt = time.Now().UTC()
		return repository.NewSQLiteUnavailabilityRepo(tx).Create(ctx, u)
	})
}

func (s *unavailabilityService) ListByResource(ctx context.Context, resourceID string) ([]*domain.Unavailability, error) {
	return s.leave.ListByResource(ctx, resourceID)
}

func (s *unavailabilityService) Approve(ctx context.Context, id string) error {
	return s.setApproval(ctx, id, domain.ApprovalApproved)
}

func (s *unavailabilityService) Reject(ctx context.Context, id string) error {
	return s.setApproval(ctx, id, domain.ApprovalRejected)
}

func (s *unavailabilityService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-unavailability", time.Now(), map[string]any{"unavailability": id}, &err)

	if _, err := s.leave.GetByID(ctx, id); err != nil {
		return mapNotFound(err, "unavailability", id)
	}
	return s.leave.Delete(ctx, id)
}

func (s *unavailabilityService) setApproval(ctx context.Context, id string, state domain.ApprovalState) (err error) {
	fields := map[string]any{"unavailability": id, "approval": string(state)}
	defer observe(ctx, s.observer, "set-unavailability-approval", time.Now(), fields, &err)

	if _, err := s.leave.GetByID(ctx, id); err != nil {
		return mapNotFound(err, "unavailability", id)
	}
	return s.leave.SetApproval(ctx, id, state)
}
