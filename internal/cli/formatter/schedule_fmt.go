package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

// FormatAssignmentList renders bookings with their effective (travel
// inclusive) span. IDs in conflicting are flagged.
func FormatAssignmentList(assignments []*domain.Assignment, names map[string]string, conflicting map[string]struct{}) string {
	if len(assignments) == 0 {
		return Dim("No assignments.") + "\n"
	}

	headers := []string{"ID", "PROJECT", "RESOURCE", "ON SITE", "TRAVEL", "NOTE"}
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		id := a.ID
		if _, hit := conflicting[a.ID]; hit {
			id = Warn(id + " ✖")
		}
		travel := Dim("--")
		if a.TravelOutDays > 0 || a.TravelBackDays > 0 {
			travel = fmt.Sprintf("+%d/+%d", a.TravelOutDays, a.TravelBackDays)
		}
		note := a.Notes
		if a.Override {
			note = StyleYellow.Render("override: " + a.OverrideReason)
		}
		rows = append(rows, []string{
			id,
			Bold(a.ProjectID),
			nameOf(names, a.ResourceID),
			Span(a.Range()),
			travel,
			OrDash(note),
		})
	}
	return RenderTable(headers, rows)
}

// FormatConflicts renders every overlapping pair found in a window.
func FormatConflicts(window domain.DateRange, pairs []scheduler.ConflictPair, names map[string]string) string {
	if len(pairs) == 0 {
		return StyleGreen.Render(fmt.Sprintf("✔ No conflicts in %s", window)) + "\n"
	}

	headers := []string{"RESOURCE", "ASSIGNMENT", "CLASHES WITH", "OVERLAP"}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{
			Bold(nameOf(names, p.ResourceID)),
			p.A,
			p.B,
			Warn(Span(p.Overlap)),
		})
	}
	title := fmt.Sprintf("%d Conflict(s) · %s", len(pairs), window)
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTaskList renders a project's tasks. Phase children are indented under
// their parent when the parent is in the list. IDs in critical are starred.
func FormatTaskList(tasks []*domain.Task, critical map[string]struct{}) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	present := make(map[string]bool, len(tasks))
	children := make(map[string][]*domain.Task)
	for _, t := range tasks {
		present[t.ID] = true
	}
	var roots []*domain.Task
	for _, t := range tasks {
		if t.ParentID != nil && present[*t.ParentID] {
			children[*t.ParentID] = append(children[*t.ParentID], t)
			continue
		}
		roots = append(roots, t)
	}

	headers := []string{"ID", "TITLE", "DATES", "STATUS", "DONE"}
	var rows [][]string
	var walk func(t *domain.Task, depth int)
	walk = func(t *domain.Task, depth int) {
		title := strings.Repeat("  ", depth) + t.Title
		if _, ok := critical[t.ID]; ok {
			title = StyleRed.Render("★ ") + Bold(title)
		}
		rows = append(rows, []string{
			t.ID,
			title,
			Span(t.Range()),
			TaskStatusPill(t.Status),
			strconv.Itoa(t.PercentComplete) + "%",
		})
		for _, c := range children[t.ID] {
			walk(c, depth+1)
		}
	}
	for _, t := range roots {
		walk(t, 0)
	}
	return RenderTable(headers, rows)
}

// FormatSchedule renders the forward/backward pass results in topological
// order with slack, starring the critical chain.
func FormatSchedule(res *scheduler.CriticalPathResult, titles map[string]string) string {
	if len(res.Order) == 0 {
		return Dim("No tasks to schedule.") + "\n"
	}

	headers := []string{"", "TASK", "EARLY", "LATE", "SLACK"}
	rows := make([][]string, 0, len(res.Order))
	for _, id := range res.Order {
		s := res.Schedules[id]
		mark := " "
		title := OrDash(titles[id])
		slack := fmt.Sprintf("%dd", s.SlackDays)
		if s.Critical {
			mark = StyleRed.Render("★")
			title = Bold(title)
			slack = Warn(slack)
		}
		rows = append(rows, []string{
			mark,
			title,
			Span(domain.NewDateRange(s.EarlyStart, s.EarlyFinish)),
			Span(domain.NewDateRange(s.LateStart, s.LateFinish)),
			slack,
		})
	}
	title := fmt.Sprintf("Critical Path · ends %s", res.ProjectEnd.Format(domain.DateLayout))
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatShifts lists the tasks a cascade moved.
func FormatShifts(shifts []scheduler.DateShift, titles map[string]string) string {
	if len(shifts) == 0 {
		return Dim("No dependent tasks moved.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", StyleHeader.Render(fmt.Sprintf("Moved %d task(s)", len(shifts))))
	for _, s := range shifts {
		days := domain.DaysBetween(s.From.Start, s.To.Start)
		delta := fmt.Sprintf("%+dd", days)
		if days > 0 {
			delta = StyleYellow.Render(delta)
		} else {
			delta = StyleGreen.Render(delta)
		}
		fmt.Fprintf(&b, "  %s  %s → %s  %s %s\n",
			Bold(OrDash(titles[s.TaskID])), s.From, s.To, delta, Dim("via "+s.Via.Short()))
	}
	return b.String()
}

// FormatOpenItems renders punch-list items with owners and due dates.
func FormatOpenItems(items []*domain.OpenItem, names map[string]string, today time.Time) string {
	if len(items) == 0 {
		return Dim("No open items.") + "\n"
	}

	headers := []string{"ID", "TITLE", "PRIORITY", "STATUS", "OWNER", "DUE"}
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		owner := Dim("--")
		if o.OwnerID != nil {
			owner = nameOf(names, *o.OwnerID)
		}
		due := DueDate(o.DueDate, today)
		title := o.Title
		if o.IsClosed() {
			title = Dim(title)
			due = Dim("--")
		} else if o.Overdue(today) {
			title = Warn(title)
		}
		rows = append(rows, []string{
			o.ID,
			title,
			PriorityPill(o.Priority),
			EnumLabel(string(o.Status)),
			owner,
			due,
		})
	}
	return RenderTable(headers, rows)
}
