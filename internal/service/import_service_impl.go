package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/importer"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

type importService struct {
	uow      db.UnitOfWork
	rules    *assignmentService
	observer UseCaseObserver
}

// NewImportService writes plan files in a single unit of work. Assignments and
// dependencies go through the same conflict and cycle rules as the
// interactive services, so one bad row rolls the whole import back.
func NewImportService(uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) ImportService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &importService{
		uow:      uow,
		rules:    &assignmentService{logger: logger},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	plan, err := importer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s.ImportPlan(ctx, plan)
}

func (s *importService) ImportPlan(ctx context.Context, plan *importer.Plan) (result *ImportResult, err error) {
	fields := map[string]any{"project": plan.Project.ID}
	defer observe(ctx, s.observer, "import-plan", time.Now(), fields, &err)

	if errs := importer.Validate(plan); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, validationErr("plan", plan.Project.ID, "%d problem(s): %s", len(errs), strings.Join(msgs, "; "))
	}

	converted, err := importer.Convert(plan, time.Now().UTC())
	if err != nil {
		return nil, validationErr("plan", plan.Project.ID, "%s", err.Error())
	}

	result = &ImportResult{Project: converted.Project}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := s.writeProject(ctx, tx, converted.Project); err != nil {
			return err
		}
		created, err := s.writeResources(ctx, tx, converted)
		if err != nil {
			return err
		}
		result.ResourceCount = created

		for _, a := range converted.Assignments {
			if err := a.Validate(); err != nil {
				return validationErr("assignment", a.ID, "%s", err.Error())
			}
			if err := s.rules.checkConflicts(ctx, tx, a); err != nil {
				return err
			}
			if err := repository.NewSQLiteAssignmentRepo(tx).Create(ctx, a); err != nil {
				return err
			}
		}
		result.AssignmentCount = len(converted.Assignments)

		txTasks := repository.NewSQLiteTaskRepo(tx)
		for _, t := range converted.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return err
			}
		}
		result.TaskCount = len(converted.Tasks)

		g := scheduler.NewGraph(values(converted.Tasks), nil)
		txDeps := repository.NewSQLiteTaskDependencyRepo(tx)
		for _, d := range converted.Dependencies {
			if !g.ValidateDependency(d.PredecessorID, d.SuccessorID, d.Type) {
				return validationErr("dependency", "", "%s -> %s would create a cycle", d.PredecessorID, d.SuccessorID)
			}
			g.AddDependency(d)
			if err := txDeps.Create(ctx, &d); err != nil {
				return err
			}
		}
		result.DependencyCount = len(converted.Dependencies)

		txItems := repository.NewSQLiteOpenItemRepo(tx)
		for _, o := range converted.OpenItems {
			if err := txItems.Create(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["resources"] = result.ResourceCount
	fields["assignments"] = result.AssignmentCount
	fields["tasks"] = result.TaskCount
	return result, nil
}

func (s *importService) writeProject(ctx context.Context, tx db.DBTX, p *domain.Project) error {
	projects := repository.NewSQLiteProjectRepo(tx)
	_, err := projects.GetByID(ctx, p.ID)
	switch {
	case err == nil:
		return duplicateErr("project", p.ID, "already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return projects.Create(ctx, p)
}

// writeResources creates new resources and rebinds plan rows to existing
// resources that share an email. It returns the number created.
func (s *importService) writeResources(ctx context.Context, tx db.DBTX, c *importer.Converted) (int, error) {
	resources := repository.NewSQLiteResourceRepo(tx)
	rebound := make(map[string]string)
	created := 0

	for _, r := range c.Resources {
		if r.Email != nil {
			existing, err := resources.GetByEmail(ctx, *r.Email)
			if err == nil {
				rebound[r.ID] = existing.ID
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return 0, err
			}
		}
		if err := resources.Create(ctx, r); err != nil {
			return 0, err
		}
		created++
	}

	for _, a := range c.Assignments {
		if id, ok := rebound[a.ResourceID]; ok {
			a.ResourceID = id
		}
	}
	for _, o := range c.OpenItems {
		if o.OwnerID == nil {
			continue
		}
		if id, ok := rebound[*o.OwnerID]; ok {
			o.OwnerID = &id
		}
	}
	return created, nil
}
