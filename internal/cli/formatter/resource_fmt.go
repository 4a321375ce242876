package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/scheduler"
)

// FormatResourceList renders the crew roster.
func FormatResourceList(resources []*domain.Resource) string {
	if len(resources) == 0 {
		return Dim("No resources yet. Add one with `crewplan resource add`.") + "\n"
	}

	headers := []string{"ID", "NAME", "EMAIL", "CATEGORY", "ACTIVE"}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		email := ""
		if r.Email != nil {
			email = *r.Email
		}
		active := StyleGreen.Render("yes")
		if !r.Active {
			active = Dim("no")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Name),
			OrDash(email),
			CategoryBadge(r.Category),
			active,
		})
	}
	return RenderBox("Resources", RenderTable(headers, rows))
}

// FormatLeaveList renders a resource's unavailability records.
func FormatLeaveList(name string, leave []*domain.Unavailability) string {
	if len(leave) == 0 {
		return Dim(fmt.Sprintf("No leave recorded for %s.", name)) + "\n"
	}

	headers := []string{"ID", "TYPE", "DATES", "APPROVAL", "REASON"}
	rows := make([][]string, 0, len(leave))
	for _, u := range leave {
		rows = append(rows, []string{
			u.ID,
			EnumLabel(string(u.Type)),
			Span(u.Range()),
			ApprovalPill(u.Approval),
			OrDash(u.Reason),
		})
	}
	return RenderBox("Leave · "+name, RenderTable(headers, rows))
}

// FormatAvailability renders the outcome of an availability check with the
// bookings and leave that block it.
func FormatAvailability(name string, av *scheduler.Availability) string {
	var b strings.Builder
	if av.Available {
		b.WriteString(StyleGreen.Render(fmt.Sprintf("✔ %s is available %s", name, av.Window)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(Warn(fmt.Sprintf("✖ %s is not available %s", name, av.Window)))
	b.WriteString("\n")
	for _, a := range av.BlockingAssignments {
		fmt.Fprintf(&b, "  %s %s on %s\n", Dim("booked"), Span(a.Effective()), Bold(a.ProjectID))
	}
	for _, u := range av.BlockingLeave {
		fmt.Fprintf(&b, "  %s %s %s\n", Dim(strings.ToLower(EnumLabel(string(u.Type)))), Span(u.Range()),
			ApprovalPill(u.Approval))
	}
	return b.String()
}
