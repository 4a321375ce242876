package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Converted holds the domain objects built from a plan. Assignments,
// dependencies and open items already point at the generated resource and
// task ids.
type Converted struct {
	Project      *domain.Project
	Resources    []*domain.Resource
	Assignments  []*domain.Assignment
	Tasks        []*domain.Task
	Dependencies []domain.TaskDependency
	OpenItems    []*domain.OpenItem
}

// Convert transforms a validated plan into domain objects ready for
// persistence. Call Validate first; Convert assumes the plan is valid.
func Convert(plan *Plan, now time.Time) (*Converted, error) {
	p := plan.Project
	start, err := parseRequiredDate("project.start", p.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseRequiredDate("project.end", p.End)
	if err != nil {
		return nil, err
	}
	status := domain.ProjectStatus(strings.ToUpper(p.Status))
	if status == "" {
		status = domain.ProjectPlanned
	}

	out := &Converted{
		Project: &domain.Project{
			ID:          p.ID,
			Description: p.Description,
			Status:      status,
			StartDate:   start,
			EndDate:     end,
			Budget:      parseOptionalDecimal(p.Budget),
			Revenue:     parseOptionalDecimal(p.Revenue),
			Costs:       parseOptionalDecimal(p.Costs),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	resourceIDs := make(map[string]string) // ref -> id
	for _, r := range plan.Resources {
		category := domain.ResourceCategory(strings.ToUpper(r.Category))
		if category == "" {
			category = domain.CategoryFieldTechnician
		}
		res := &domain.Resource{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(r.Name),
			Category:  category,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if email := strings.ToLower(strings.TrimSpace(r.Email)); email != "" {
			res.Email = &email
		}
		resourceIDs[r.Ref] = res.ID
		out.Resources = append(out.Resources, res)
	}

	for i, a := range plan.Assignments {
		s, err := parseRequiredDate(fmt.Sprintf("assignments[%d].start", i), a.Start)
		if err != nil {
			return nil, err
		}
		e, err := parseRequiredDate(fmt.Sprintf("assignments[%d].end", i), a.End)
		if err != nil {
			return nil, err
		}
		out.Assignments = append(out.Assignments, &domain.Assignment{
			ID:             uuid.New().String(),
			ProjectID:      p.ID,
			ResourceID:     resourceIDs[a.Resource],
			StartDate:      s,
			EndDate:        e,
			TravelOutDays:  a.TravelOut,
			TravelBackDays: a.TravelBack,
			Override:       a.Override,
			OverrideReason: strings.TrimSpace(a.OverrideReason),
			Notes:          a.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	taskIDs := make(map[string]string)
	for i, t := range plan.Tasks {
		s, err := parseRequiredDate(fmt.Sprintf("tasks[%d].start", i), t.Start)
		if err != nil {
			return nil, err
		}
		e, err := parseRequiredDate(fmt.Sprintf("tasks[%d].end", i), t.End)
		if err != nil {
			return nil, err
		}
		status := domain.TaskStatus(strings.ToUpper(t.Status))
		if status == "" {
			status = domain.TaskNotStarted
		}
		task := &domain.Task{
			ID:              uuid.New().String(),
			ProjectID:       p.ID,
			Title:           strings.TrimSpace(t.Title),
			StartDate:       s,
			EndDate:         e,
			Status:          status,
			PercentComplete: t.Percent,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if t.Phase != "" {
			if pid, ok := taskIDs[t.Phase]; ok {
				task.ParentID = &pid
			}
		}
		taskIDs[t.Ref] = task.ID
		out.Tasks = append(out.Tasks, task)
	}

	for _, d := range plan.Dependencies {
		typ, err := domain.ParseDependencyType(d.Type)
		if err != nil {
			return nil, err
		}
		out.Dependencies = append(out.Dependencies, domain.TaskDependency{
			PredecessorID: taskIDs[d.From],
			SuccessorID:   taskIDs[d.To],
			Type:          typ,
			LagDays:       d.Lag,
		})
	}

	for _, o := range plan.OpenItems {
		priority := domain.OpenItemPriority(strings.ToUpper(o.Priority))
		if priority == "" {
			priority = domain.PriorityMedium
		}
		item := &domain.OpenItem{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			Title:     strings.TrimSpace(o.Title),
			Priority:  priority,
			Status:    domain.OpenItemOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if o.Due != "" {
			due, err := domain.ParseDate(o.Due)
			if err != nil {
				return nil, err
			}
			item.DueDate = &due
		}
		if o.Owner != "" {
			owner := resourceIDs[o.Owner]
			item.OwnerID = &owner
		}
		out.OpenItems = append(out.OpenItems, item)
	}

	return out, nil
}

func parseRequiredDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func parseOptionalDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
