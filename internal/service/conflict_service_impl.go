package service

import (
	"context"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

type conflictService struct {
	assignments repository.AssignmentRepo
	observer    UseCaseObserver
}

func NewConflictService(assignments repository.AssignmentRepo, observers ...UseCaseObserver) ConflictService {
	return &conflictService{assignments: assignments, observer: useCaseObserverOrNoop(observers)}
}

// DetectAllConflicts sweeps every assignment touching window, overrides
// included, and reports each overlapping pair.
func (s *conflictService) DetectAllConflicts(ctx context.Context, window domain.DateRange) (report *ConflictReport, err error) {
	fields := map[string]any{"window": window.String()}
	defer observe(ctx, s.observer, "detect-conflicts", time.Now(), fields, &err)

	window = domain.NewDateRange(window.Start, window.End)
	if err := window.Validate(); err != nil {
		return nil, validationErr("window", "", "%s", err.Error())
	}

	booked, err := s.assignments.ListOverlapping(ctx, "", window)
	if err != nil {
		return nil, err
	}
	list := values(booked)
	report = &ConflictReport{
		Window:      window,
		Assignments: list,
		IDs:         scheduler.FindOverlappingAssignments(list),
		Pairs:       scheduler.FindConflictPairs(list),
	}
	fields["assignments"] = len(list)
	fields["conflicts"] = len(report.IDs)
	return report, nil
}
