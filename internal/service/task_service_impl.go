package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/scheduler"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	deps     repository.TaskDependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	deps repository.TaskDependencyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:    tasks,
		deps:     deps,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	defer observe(ctx, s.observer, "create-task", time.Now(), map[string]any{"task": t.ID, "project": t.ProjectID}, &err)

	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return validationErr("task", t.ID, "title is required")
	}
	t.StartDate, t.EndDate = domain.Day(t.StartDate), domain.Day(t.EndDate)
	if err := t.Range().Validate(); err != nil {
		return validationErr("task", t.ID, "%s", err.Error())
	}
	if t.Status == "" {
		t.Status = domain.TaskNotStarted
	}
	if !domain.ValidTaskStatuses[t.Status] {
		return validationErr("task", t.ID, "unknown status %q", t.Status)
	}
	if t.PercentComplete < 0 || t.PercentComplete > 100 {
		return validationErr("task", t.ID, "percent complete must be between 0 and 100 (got %d)", t.PercentComplete)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, t.ProjectID); err != nil {
			return mapNotFound(err, "project", t.ProjectID)
		}
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if t.ParentID != nil {
			parent, err := txTasks.GetByID(ctx, *t.ParentID)
			if err != nil {
				return mapNotFound(err, "task", *t.ParentID)
			}
			if parent.ProjectID != t.ProjectID {
				return validationErr("task", t.ID, "phase %s belongs to project %s", parent.ID, parent.ProjectID)
			}
		}
		now := time.Now().UTC()
		t.CreatedAt = now
		t.UpdatedAt = now
		return txTasks.Create(ctx, t)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "task", id)
	}
	return t, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) UpdateDates(ctx context.Context, id string, start, end time.Time) (shifts []scheduler.DateShift, err error) {
	fields := map[string]any{"task": id}
	defer observe(ctx, s.observer, "update-task-dates", time.Now(), fields, &err)

	window := domain.NewDateRange(start, end)
	if err := window.Validate(); err != nil {
		return nil, validationErr("task", id, "%s", err.Error())
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := s.graphForTask(ctx, tx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		moved, _ := g.Task(id)
		moved.StartDate, moved.EndDate = window.Start, window.End
		moved.UpdatedAt = now
		if err := repository.NewSQLiteTaskRepo(tx).Update(ctx, moved); err != nil {
			return err
		}
		shifts, err = s.cascade(ctx, tx, g, id, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["shifted"] = len(shifts)
	return shifts, nil
}

func (s *taskService) CascadeDates(ctx context.Context, id string) (shifts []scheduler.DateShift, err error) {
	fields := map[string]any{"task": id}
	defer observe(ctx, s.observer, "cascade-task-dates", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := s.graphForTask(ctx, tx, id)
		if err != nil {
			return err
		}
		shifts, err = s.cascade(ctx, tx, g, id, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["shifted"] = len(shifts)
	return shifts, nil
}

// cascade runs the graph cascade from id and writes the final dates of every
// task that actually moved.
func (s *taskService) cascade(ctx context.Context, tx db.DBTX, g *scheduler.Graph, id string, now time.Time) ([]scheduler.DateShift, error) {
	all, err := g.Cascade(id, now)
	if err != nil {
		if errors.Is(err, scheduler.ErrCascadeCycle) {
			return nil, constraintErr("task", id, "%s", err.Error())
		}
		return nil, err
	}

	txTasks := repository.NewSQLiteTaskRepo(tx)
	var moved []scheduler.DateShift
	written := make(map[string]bool)
	for _, sh := range all {
		if sh.From == sh.To {
			continue
		}
		moved = append(moved, sh)
		if written[sh.TaskID] {
			continue
		}
		written[sh.TaskID] = true
		t, _ := g.Task(sh.TaskID)
		if err := txTasks.Update(ctx, t); err != nil {
			return nil, fmt.Errorf("saving cascaded dates for %s: %w", sh.TaskID, err)
		}
	}
	return moved, nil
}

func (s *taskService) SetProgress(ctx context.Context, id string, pct int) (err error) {
	defer observe(ctx, s.observer, "set-task-progress", time.Now(), map[string]any{"task": id, "percent": pct}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, "task", id)
		}
		if err := t.SetProgress(pct, time.Now().UTC()); err != nil {
			return validationErr("task", id, "%s", err.Error())
		}
		return txTasks.Update(ctx, t)
	})
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-task", time.Now(), map[string]any{"task": id}, &err)

	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return mapNotFound(err, "task", id)
	}
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) AddDependency(ctx context.Context, d domain.TaskDependency) (err error) {
	fields := map[string]any{"predecessor": d.PredecessorID, "successor": d.SuccessorID}
	defer observe(ctx, s.observer, "add-dependency", time.Now(), fields, &err)

	if d.Type == "" {
		d.Type = domain.FinishToStart
	}
	fields["type"] = string(d.Type)
	if !domain.ValidDependencyTypes[d.Type] {
		return validationErr("dependency", "", "unknown type %q", d.Type)
	}
	if d.PredecessorID == d.SuccessorID {
		return validationErr("dependency", "", "task %s cannot depend on itself", d.PredecessorID)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		pred, err := txTasks.GetByID(ctx, d.PredecessorID)
		if err != nil {
			return mapNotFound(err, "task", d.PredecessorID)
		}
		succ, err := txTasks.GetByID(ctx, d.SuccessorID)
		if err != nil {
			return mapNotFound(err, "task", d.SuccessorID)
		}
		if pred.ProjectID != succ.ProjectID {
			return validationErr("dependency", "", "tasks belong to different projects (%s, %s)", pred.ProjectID, succ.ProjectID)
		}

		g, err := loadGraph(ctx, tx, pred.ProjectID)
		if err != nil {
			return err
		}
		for _, e := range g.Successors(pred.ID) {
			if e.SuccessorID == succ.ID {
				return duplicateErr("dependency", "", "%s already precedes %s", pred.ID, succ.ID)
			}
		}
		if !g.ValidateDependency(pred.ID, succ.ID, d.Type) {
			return validationErr("dependency", "", "%s -> %s would create a cycle", pred.ID, succ.ID)
		}
		return repository.NewSQLiteTaskDependencyRepo(tx).Create(ctx, &d)
	})
}

func (s *taskService) RemoveDependency(ctx context.Context, predecessorID, successorID string) (err error) {
	fields := map[string]any{"predecessor": predecessorID, "successor": successorID}
	defer observe(ctx, s.observer, "remove-dependency", time.Now(), fields, &err)

	if err := s.deps.Delete(ctx, predecessorID, successorID); err != nil {
		return mapNotFound(err, "dependency", predecessorID+"->"+successorID)
	}
	return nil
}

// ValidateDependency reports whether the edge could be added. Missing tasks
// yield false rather than an error.
func (s *taskService) ValidateDependency(ctx context.Context, predecessorID, successorID string, typ domain.DependencyType) (bool, error) {
	pred, err := s.tasks.GetByID(ctx, predecessorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	tasks, err := s.tasks.ListByProject(ctx, pred.ProjectID)
	if err != nil {
		return false, err
	}
	deps, err := s.deps.ListByProject(ctx, pred.ProjectID)
	if err != nil {
		return false, err
	}
	return scheduler.NewGraph(values(tasks), deps).ValidateDependency(predecessorID, successorID, typ), nil
}

func (s *taskService) FindCriticalPath(ctx context.Context, projectID string) (map[string]struct{}, error) {
	res, err := s.Schedule(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return res.Critical, nil
}

func (s *taskService) Schedule(ctx context.Context, projectID string) (res *scheduler.CriticalPathResult, err error) {
	fields := map[string]any{"project": projectID}
	defer observe(ctx, s.observer, "critical-path", time.Now(), fields, &err)

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	res, err = scheduler.NewGraph(values(tasks), deps).CriticalPath()
	if err != nil {
		if errors.Is(err, scheduler.ErrGraphCycle) {
			return nil, constraintErr("project", projectID, "%s", err.Error())
		}
		return nil, err
	}
	fields["tasks"] = len(tasks)
	fields["critical"] = len(res.Critical)
	return res, nil
}

// graphForTask loads the dependency graph of the project owning id.
func (s *taskService) graphForTask(ctx context.Context, tx db.DBTX, id string) (*scheduler.Graph, error) {
	t, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "task", id)
	}
	return loadGraph(ctx, tx, t.ProjectID)
}

func loadGraph(ctx context.Context, tx db.DBTX, projectID string) (*scheduler.Graph, error) {
	tasks, err := repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := repository.NewSQLiteTaskDependencyRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return scheduler.NewGraph(values(tasks), deps), nil
}
