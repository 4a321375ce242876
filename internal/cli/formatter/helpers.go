package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := StyleHeader.Render(title) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(domain.Day(t).Sub(domain.Day(now)).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueDate renders a due date relative to today, red once it has passed or
// falls within two days.
func DueDate(due *time.Time, today time.Time) string {
	if due == nil {
		return Dim("--")
	}
	text := RelativeDateFrom(*due, today)
	days := domain.DaysBetween(domain.Day(today), domain.Day(*due))
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Span renders an inclusive date range as "2024-01-01 → 2024-01-05 (5d)".
func Span(r domain.DateRange) string {
	return fmt.Sprintf("%s → %s %s", r.Start.Format(domain.DateLayout), r.End.Format(domain.DateLayout),
		Dim(fmt.Sprintf("(%dd)", r.Days())))
}

// displayNames maps stored enum values to the labels users see. Values
// missing from the table fall back to title case.
var displayNames = map[string]string{
	string(domain.CategoryFieldTechnician): "Field Tech",
	string(domain.UnavailabilitySickLeave): "Sick Leave",
	string(domain.OpenItemInProgress):      "In Progress",
	string(domain.TaskNotStarted):          "Not Started",
	string(domain.FinishToStart):           "Finish → Start",
	string(domain.StartToStart):            "Start → Start",
	string(domain.FinishToFinish):          "Finish → Finish",
	string(domain.StartToFinish):           "Start → Finish",
}

// EnumLabel turns a stored value such as FIELD_TECHNICIAN into its display
// name.
func EnumLabel(v string) string {
	if label, ok := displayNames[v]; ok {
		return label
	}
	parts := strings.Split(strings.ToLower(v), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.ProjectDelayed:
		return StyleYellow.Render("▲ Delayed")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored status indicator for task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskNotStarted:
		return StyleBlue.Render("○ Not Started")
	case domain.TaskInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.TaskBlocked:
		return StyleRed.Render("■ Blocked")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.TaskCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// ApprovalPill returns a colored indicator for a leave approval state.
func ApprovalPill(state domain.ApprovalState) string {
	switch state {
	case domain.ApprovalApproved:
		return StyleGreen.Render("✔ Approved")
	case domain.ApprovalPending:
		return StyleYellow.Render("… Pending")
	case domain.ApprovalRejected:
		return StyleDim.Render("✖ Rejected")
	default:
		return StyleDim.Render(string(state))
	}
}

// PriorityPill returns a colored indicator for open item priority.
func PriorityPill(p domain.OpenItemPriority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ Critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("▲ High")
	case domain.PriorityMedium:
		return StyleFg.Render("● Medium")
	case domain.PriorityLow:
		return StyleDim.Render("▽ Low")
	default:
		return StyleDim.Render(string(p))
	}
}

// CategoryBadge returns a purple-styled resource category label.
func CategoryBadge(c domain.ResourceCategory) string {
	return StylePurple.Render(EnumLabel(string(c)))
}

// Money renders an optional amount with two decimals.
func Money(d *decimal.Decimal) string {
	if d == nil {
		return Dim("--")
	}
	return d.StringFixed(2)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OrDash returns s, or a dimmed placeholder when it is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
