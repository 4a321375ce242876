package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/scheduler"
	"github.com/google/uuid"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	logger      *slog.Logger
	observer    UseCaseObserver
}

func NewAssignmentService(
	assignments repository.AssignmentRepo,
	uow db.UnitOfWork,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) AssignmentService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &assignmentService{
		assignments: assignments,
		uow:         uow,
		logger:      logger,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *assignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (a *domain.Assignment, err error) {
	fields := map[string]any{"project": req.ProjectID, "resource": req.ResourceID, "override": req.Override}
	defer observe(ctx, s.observer, "create-assignment", time.Now(), fields, &err)

	now := time.Now().UTC()
	candidate := &domain.Assignment{
		ID:             uuid.New().String(),
		ProjectID:      req.ProjectID,
		ResourceID:     req.ResourceID,
		StartDate:      domain.Day(req.Start),
		EndDate:        domain.Day(req.End),
		TravelOutDays:  req.TravelOutDays,
		TravelBackDays: req.TravelBackDays,
		Override:       req.Override,
		OverrideReason: req.OverrideReason,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := candidate.Validate(); err != nil {
		return nil, validationErr("assignment", "", "%s", err.Error())
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := s.checkReferences(ctx, tx, candidate); err != nil {
			return err
		}
		if err := s.checkConflicts(ctx, tx, candidate); err != nil {
			return err
		}
		return repository.NewSQLiteAssignmentRepo(tx).Create(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	fields["assignment"] = candidate.ID
	return candidate, nil
}

func (s *assignmentService) Update(ctx context.Context, a *domain.Assignment) (err error) {
	defer observe(ctx, s.observer, "update-assignment", time.Now(), map[string]any{"assignment": a.ID}, &err)

	a.StartDate, a.EndDate = domain.Day(a.StartDate), domain.Day(a.EndDate)
	if err := a.Validate(); err != nil {
		return validationErr("assignment", a.ID, "%s", err.Error())
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		existing, err := txAssignments.GetByID(ctx, a.ID)
		if err != nil {
			return mapNotFound(err, "assignment", a.ID)
		}
		if err := s.checkReferences(ctx, tx, a); err != nil {
			return err
		}
		if err := s.checkConflicts(ctx, tx, a); err != nil {
			return err
		}
		a.CreatedAt = existing.CreatedAt
		a.UpdatedAt = time.Now().UTC()
		return txAssignments.Update(ctx, a)
	})
}

func (s *assignmentService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-assignment", time.Now(), map[string]any{"assignment": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		if _, err := txAssignments.GetByID(ctx, id); err != nil {
			return mapNotFound(err, "assignment", id)
		}
		return txAssignments.Delete(ctx, id)
	})
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "assignment", id)
	}
	return a, nil
}

func (s *assignmentService) ListByResource(ctx context.Context, resourceID string) ([]*domain.Assignment, error) {
	return s.assignments.ListByResource(ctx, resourceID)
}

func (s *assignmentService) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *assignmentService) ListInRange(ctx context.Context, window domain.DateRange) ([]*domain.Assignment, error) {
	if err := window.Validate(); err != nil {
		return nil, validationErr("window", "", "%s", err.Error())
	}
	return s.assignments.ListOverlapping(ctx, "", window)
}

func (s *assignmentService) checkReferences(ctx context.Context, tx db.DBTX, a *domain.Assignment) error {
	if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, a.ProjectID); err != nil {
		return mapNotFound(err, "project", a.ProjectID)
	}
	if _, err := repository.NewSQLiteResourceRepo(tx).GetByID(ctx, a.ResourceID); err != nil {
		return mapNotFound(err, "resource", a.ResourceID)
	}
	return nil
}

// checkConflicts rejects a non-override booking whose effective range touches
// another non-override booking or blocking leave of the same resource.
// Project date ranges are intentionally not enforced here.
func (s *assignmentService) checkConflicts(ctx context.Context, tx db.DBTX, a *domain.Assignment) error {
	if a.Override {
		s.logger.InfoContext(ctx, "conflict check skipped for override",
			"resource", a.ResourceID, "range", a.Effective().String(), "reason", a.OverrideReason)
		return nil
	}
	window := a.Effective()

	booked, err := repository.NewSQLiteAssignmentRepo(tx).ListOverlapping(ctx, a.ResourceID, window)
	if err != nil {
		return err
	}
	if hits := scheduler.CandidateConflicts(*a, values(booked)); len(hits) > 0 {
		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, h.ID)
		}
		return &RuleError{
			Kind: KindConflict, Entity: "resource", ID: a.ResourceID,
			Message:        "already booked in " + window.String() + ": " + describeAssignments(hits),
			ConflictingIDs: ids,
		}
	}

	leave, err := repository.NewSQLiteUnavailabilityRepo(tx).ListOverlapping(ctx, a.ResourceID, window)
	if err != nil {
		return err
	}
	avail := scheduler.EvaluateAvailability(a.ResourceID, window, nil, values(leave))
	if len(avail.BlockingLeave) > 0 {
		ids := make([]string, 0, len(avail.BlockingLeave))
		for _, u := range avail.BlockingLeave {
			ids = append(ids, u.ID)
		}
		return &RuleError{
			Kind: KindConflict, Entity: "resource", ID: a.ResourceID,
			Message:        "unavailable in " + window.String() + ": " + describeLeave(avail.BlockingLeave),
			ConflictingIDs: ids,
		}
	}
	return nil
}
