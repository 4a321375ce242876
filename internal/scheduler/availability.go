package scheduler

import "github.com/alexanderramin/crewplan/internal/domain"

// Availability is the outcome of evaluating a resource against a window.
type Availability struct {
	ResourceID          string
	Window              domain.DateRange
	Available           bool
	BlockingAssignments []domain.Assignment
	BlockingLeave       []domain.Unavailability
}

// BlockingTypes lists the distinct unavailability types that blocked, in
// first-seen order.
func (a Availability) BlockingTypes() []domain.UnavailabilityType {
	seen := make(map[domain.UnavailabilityType]bool)
	var types []domain.UnavailabilityType
	for _, u := range a.BlockingLeave {
		if !seen[u.Type] {
			seen[u.Type] = true
			types = append(types, u.Type)
		}
	}
	return types
}

// EvaluateAvailability decides whether resourceID may be booked in window.
// A non-override assignment whose effective range overlaps the window blocks,
// as does any overlapping unavailability that is not rejected. Records for
// other resources are ignored.
func EvaluateAvailability(resourceID string, window domain.DateRange, assignments []domain.Assignment, leave []domain.Unavailability) Availability {
	result := Availability{ResourceID: resourceID, Window: window}

	for _, a := range assignments {
		if a.ResourceID != resourceID || a.Override {
			continue
		}
		if Overlaps(a.Effective(), window) {
			result.BlockingAssignments = append(result.BlockingAssignments, a)
		}
	}

	for _, u := range leave {
		if u.ResourceID != resourceID || !u.Blocks() {
			continue
		}
		if Overlaps(u.Range(), window) {
			result.BlockingLeave = append(result.BlockingLeave, u)
		}
	}

	result.Available = len(result.BlockingAssignments) == 0 && len(result.BlockingLeave) == 0
	return result
}
