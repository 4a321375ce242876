package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProjectDetailData holds everything the project show view renders.
type ProjectDetailData struct {
	Project     *domain.Project
	Assignments []*domain.Assignment
	Tasks       []*domain.Task
	OpenItems   []*domain.OpenItem
	// Names maps resource IDs to display names.
	Names map[string]string
	Today time.Time
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with `crewplan project add`.") + "\n"
	}

	headers := []string{"ID", "DESCRIPTION", "STATUS", "DATES", "BUDGET"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		budget := Money(p.Budget)
		if p.OverBudget() {
			budget = Warn(budget + " !")
		}
		rows = append(rows, []string{
			Bold(p.ID),
			OrDash(p.Description),
			StatusPill(p.Status),
			Span(p.Range()),
			budget,
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders the metadata panel of one project followed by
// its crew, tasks and open items.
func FormatProjectDetail(d ProjectDetailData) string {
	p := d.Project

	var meta strings.Builder
	line := func(label, value string) {
		meta.WriteString(StyleDim.Render(fmt.Sprintf("%-12s", label)))
		meta.WriteString(value)
		meta.WriteString("\n")
	}
	line("Status", StatusPill(p.Status))
	line("Dates", Span(p.Range()))
	if p.ManagerID != nil {
		line("Manager", nameOf(d.Names, *p.ManagerID))
	}
	line("Budget", Money(p.Budget))
	line("Revenue", Money(p.Revenue))
	line("Costs", Money(p.Costs))
	if m := p.Margin(); m != nil {
		margin := m.StringFixed(2)
		if m.IsNegative() {
			margin = Warn(margin)
		}
		line("Margin", margin)
	}
	if p.IsDeleted() {
		line("Deleted", Warn(HumanDate(*p.DeletedAt)))
	}

	title := p.ID
	if p.Description != "" {
		title += "  " + p.Description
	}

	sections := []string{RenderBox(title, strings.TrimRight(meta.String(), "\n"))}

	if len(d.Assignments) > 0 {
		sections = append(sections, Header("Crew")+"\n"+FormatAssignmentList(d.Assignments, d.Names, nil))
	}
	if len(d.Tasks) > 0 {
		sections = append(sections, Header("Tasks")+"\n"+FormatTaskList(d.Tasks, nil))
	}
	if len(d.OpenItems) > 0 {
		sections = append(sections, Header("Open Items")+"\n"+FormatOpenItems(d.OpenItems, d.Names, d.Today))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func nameOf(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return TruncID(id)
}
