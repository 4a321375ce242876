package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// values copies a slice of pointers into a slice of values for the pure
// scheduler functions.
func values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}

func describeAssignments(list []domain.Assignment) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.ID, a.Effective()))
	}
	return strings.Join(parts, ", ")
}

func describeLeave(list []domain.Unavailability) string {
	parts := make([]string, 0, len(list))
	for _, u := range list {
		parts = append(parts, fmt.Sprintf("%s %s (%s)", u.Type, u.ID, u.Range()))
	}
	return strings.Join(parts, ", ")
}
