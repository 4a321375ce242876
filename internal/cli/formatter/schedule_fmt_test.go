package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/scheduler"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatTaskList_NestsPhasesAndStarsCritical(t *testing.T) {
	phase := "prep"
	tasks := []*domain.Task{
		{ID: "prep", Title: "Preparation", StartDate: day(1), EndDate: day(5), Status: domain.TaskInProgress, PercentComplete: 40},
		{ID: "wire", Title: "Wiring", ParentID: &phase, StartDate: day(2), EndDate: day(4), Status: domain.TaskNotStarted},
	}

	out := FormatTaskList(tasks, map[string]struct{}{"prep": {}})

	assert.Contains(t, out, "★")
	assert.Contains(t, out, "  Wiring", "children are indented under their phase")
	assert.Contains(t, out, "40%")
	assert.Less(t, strings.Index(out, "Preparation"), strings.Index(out, "Wiring"))
}

func TestFormatConflicts(t *testing.T) {
	window := domain.NewDateRange(day(1), day(31))
	assert.Contains(t, FormatConflicts(window, nil, nil), "No conflicts")

	out := FormatConflicts(window, []scheduler.ConflictPair{
		{ResourceID: "r1", A: "a1", B: "a2", Overlap: domain.NewDateRange(day(3), day(5))},
	}, map[string]string{"r1": "Alice"})
	assert.Contains(t, out, "1 Conflict(s)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "2024-01-03 → 2024-01-05")
}

func TestFormatSchedule(t *testing.T) {
	res := &scheduler.CriticalPathResult{
		ProjectEnd: day(12),
		Order:      []string{"a", "b"},
		Schedules: map[string]scheduler.TaskSchedule{
			"a": {TaskID: "a", EarlyStart: day(1), EarlyFinish: day(5), LateStart: day(1), LateFinish: day(5), Critical: true},
			"b": {TaskID: "b", EarlyStart: day(1), EarlyFinish: day(2), LateStart: day(4), LateFinish: day(5), SlackDays: 3},
		},
	}

	out := FormatSchedule(res, map[string]string{"a": "Install", "b": "Order parts"})
	assert.Contains(t, out, "ends 2024-01-12")
	assert.Contains(t, out, "Install")
	assert.Contains(t, out, "3d")
}

func TestFormatShifts(t *testing.T) {
	assert.Contains(t, FormatShifts(nil, nil), "No dependent tasks moved")

	out := FormatShifts([]scheduler.DateShift{{
		TaskID: "b",
		From:   domain.NewDateRange(day(6), day(8)),
		To:     domain.NewDateRange(day(11), day(13)),
		Via:    domain.FinishToStart,
	}}, map[string]string{"b": "Commission"})
	assert.Contains(t, out, "Commission")
	assert.Contains(t, out, "+5d")
	assert.Contains(t, out, "via FS")
}

func TestFormatOpenItems_FlagsOverdue(t *testing.T) {
	due := day(3)
	items := []*domain.OpenItem{
		{ID: "i1", Title: "Permit", Priority: domain.PriorityHigh, Status: domain.OpenItemOpen, DueDate: &due},
	}
	out := FormatOpenItems(items, nil, day(10))
	assert.Contains(t, out, "Permit")
	assert.Contains(t, out, "7d ago")
}
