package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

type availabilityService struct {
	assignments repository.AssignmentRepo
	leave       repository.UnavailabilityRepo
	logger      *slog.Logger
}

func NewAvailabilityService(
	assignments repository.AssignmentRepo,
	leave repository.UnavailabilityRepo,
	logger *slog.Logger,
) AvailabilityService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &availabilityService{assignments: assignments, leave: leave, logger: logger}
}

func (s *availabilityService) IsAvailable(ctx context.Context, resourceID string, start, end time.Time) (bool, error) {
	res, err := s.Check(ctx, resourceID, domain.NewDateRange(start, end))
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// Check is read-only. Store errors are returned as they come.
func (s *availabilityService) Check(ctx context.Context, resourceID string, window domain.DateRange) (*scheduler.Availability, error) {
	window = domain.NewDateRange(window.Start, window.End)
	if err := window.Validate(); err != nil {
		return nil, validationErr("window", "", "%s", err.Error())
	}

	booked, err := s.assignments.ListOverlapping(ctx, resourceID, window)
	if err != nil {
		return nil, err
	}
	leave, err := s.leave.ListOverlapping(ctx, resourceID, window)
	if err != nil {
		return nil, err
	}

	res := scheduler.EvaluateAvailability(resourceID, window, values(booked), values(leave))
	if !res.Available {
		types := make([]string, 0, len(res.BlockingLeave))
		for _, t := range res.BlockingTypes() {
			types = append(types, string(t))
		}
		s.logger.DebugContext(ctx, "resource unavailable",
			"resource", resourceID,
			"window", window.String(),
			"blocking_assignments", len(res.BlockingAssignments),
			"blocking_types", types,
		)
	}
	return &res, nil
}
