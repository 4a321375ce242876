package scheduler

import (
	"sort"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// ConflictPair is one double-booking between two assignments of a resource.
type ConflictPair struct {
	ResourceID string
	A          string
	B          string
	Overlap    domain.DateRange
}

// groupByResource buckets assignments per resource, keeping input order.
func groupByResource(assignments []domain.Assignment) (map[string][]domain.Assignment, []string) {
	groups := make(map[string][]domain.Assignment)
	var order []string
	for _, a := range assignments {
		if _, ok := groups[a.ResourceID]; !ok {
			order = append(order, a.ResourceID)
		}
		groups[a.ResourceID] = append(groups[a.ResourceID], a)
	}
	sort.Strings(order)
	return groups, order
}

// FindConflictPairs compares every pair of assignments per resource on their
// effective ranges. Override assignments are included so the sweep surfaces
// every overlap in the window.
func FindConflictPairs(assignments []domain.Assignment) []ConflictPair {
	groups, order := groupByResource(assignments)

	var pairs []ConflictPair
	for _, resourceID := range order {
		list := groups[resourceID]
		for i := 0; i < len(list); i++ {
			ei := list[i].Effective()
			for j := i + 1; j < len(list); j++ {
				ej := list[j].Effective()
				if !Overlaps(ei, ej) {
					continue
				}
				a, b := list[i].ID, list[j].ID
				if b < a {
					a, b = b, a
				}
				pairs = append(pairs, ConflictPair{
					ResourceID: resourceID,
					A:          a,
					B:          b,
					Overlap:    Intersection(ei, ej),
				})
			}
		}
	}
	return pairs
}

// FindOverlappingAssignments returns the ids of every assignment that
// overlaps at least one other assignment of the same resource.
func FindOverlappingAssignments(assignments []domain.Assignment) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, p := range FindConflictPairs(assignments) {
		ids[p.A] = struct{}{}
		ids[p.B] = struct{}{}
	}
	return ids
}

// CandidateConflicts returns the existing assignments that block candidate.
// Only assignments of the candidate's resource count; overrides and the
// candidate itself (by id) are skipped.
func CandidateConflicts(candidate domain.Assignment, existing []domain.Assignment) []domain.Assignment {
	eff := candidate.Effective()
	var hits []domain.Assignment
	for _, a := range existing {
		if a.ResourceID != candidate.ResourceID || a.Override {
			continue
		}
		if candidate.ID != "" && a.ID == candidate.ID {
			continue
		}
		if Overlaps(eff, a.Effective()) {
			hits = append(hits, a)
		}
	}
	return hits
}

// SortedIDs returns the members of an id set in lexical order.
func SortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
