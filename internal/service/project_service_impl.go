package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
)

type projectService struct {
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	assignments repository.AssignmentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects:    projects,
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now(), map[string]any{"project": p.ID}, &err)

	if err := p.ValidateID(); err != nil {
		return validationErr("project", p.ID, "%s", err.Error())
	}
	if err := p.Range().Validate(); err != nil {
		return validationErr("project", p.ID, "%s", err.Error())
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanned
	}
	if !domain.ValidProjectStatuses[p.Status] {
		return validationErr("project", p.ID, "unknown status %q", p.Status)
	}

	_, err = s.projects.GetByID(ctx, p.ID)
	switch {
	case err == nil:
		return duplicateErr("project", p.ID, "already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	now := time.Now().UTC()
	p.StartDate, p.EndDate = domain.Day(p.StartDate), domain.Day(p.EndDate)
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "project", id)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeDeleted)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "update-project", time.Now(), map[string]any{"project": p.ID}, &err)

	if err := p.Range().Validate(); err != nil {
		return validationErr("project", p.ID, "%s", err.Error())
	}
	if p.Status != "" && !domain.ValidProjectStatuses[p.Status] {
		return validationErr("project", p.ID, "unknown status %q", p.Status)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		existing, err := txProjects.GetByID(ctx, p.ID)
		if err != nil {
			return mapNotFound(err, "project", p.ID)
		}

		newRange := p.Range()
		booked, err := txAssignments.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, a := range booked {
			if !newRange.Contains(a.Range()) {
				return validationErr("project", p.ID,
					"assignment %s (%s) would fall outside the new range %s", a.ID, a.Range(), newRange)
			}
		}

		if p.Status == "" {
			p.Status = existing.Status
		}
		p.StartDate, p.EndDate = newRange.Start, newRange.End
		p.CreatedAt = existing.CreatedAt
		p.DeletedAt = existing.DeletedAt
		p.UpdatedAt = time.Now().UTC()
		return txProjects.Update(ctx, p)
	})
}

func (s *projectService) Delete(ctx context.Context, id string, soft bool) (err error) {
	defer observe(ctx, s.observer, "delete-project", time.Now(), map[string]any{"project": id, "soft": soft}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		if _, err := txProjects.GetByID(ctx, id); err != nil {
			return mapNotFound(err, "project", id)
		}
		n, err := txAssignments.CountByProject(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return constraintErr("project", id, "%d assignment(s) still reference it", n)
		}
		if soft {
			return txProjects.SoftDelete(ctx, id, time.Now().UTC())
		}
		return txProjects.Delete(ctx, id)
	})
}
