package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Validate checks the plan before conversion and returns every problem found.
func Validate(plan *Plan) []error {
	var errs []error

	errs = append(errs, validateProject(&plan.Project)...)

	resourceRefs := make(map[string]bool)
	errs = append(errs, validateResources(plan.Resources, resourceRefs)...)
	errs = append(errs, validateAssignments(plan.Assignments, resourceRefs)...)

	taskRefs := make(map[string]bool)
	errs = append(errs, validateTasks(plan.Tasks, taskRefs)...)
	errs = append(errs, validateDependencies(plan.Dependencies, taskRefs)...)
	errs = append(errs, validateOpenItems(plan.OpenItems, resourceRefs)...)

	return errs
}

func validateProject(p *ProjectPlan) []error {
	var errs []error

	probe := domain.Project{ID: p.ID}
	if err := probe.ValidateID(); err != nil {
		errs = append(errs, fmt.Errorf("project.id: %w", err))
	}
	if p.Status != "" && !domain.ValidProjectStatuses[domain.ProjectStatus(strings.ToUpper(p.Status))] {
		errs = append(errs, fmt.Errorf("project.status: invalid value %q", p.Status))
	}
	errs = append(errs, validateRange("project", p.Start, p.End)...)

	amounts := []struct {
		field string
		value *string
	}{{"budget", p.Budget}, {"revenue", p.Revenue}, {"costs", p.Costs}}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		if _, err := decimal.NewFromString(*a.value); err != nil {
			errs = append(errs, fmt.Errorf("project.%s: invalid amount %q", a.field, *a.value))
		}
	}
	return errs
}

func validateResources(resources []ResourcePlan, refs map[string]bool) []error {
	var errs []error

	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)

		if r.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[r.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, r.Ref))
		} else {
			refs[r.Ref] = true
		}
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if r.Category != "" && !domain.ValidResourceCategories[domain.ResourceCategory(strings.ToUpper(r.Category))] {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, r.Category))
		}
	}
	return errs
}

func validateAssignments(assignments []AssignmentPlan, resourceRefs map[string]bool) []error {
	var errs []error

	for i, a := range assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)

		if a.Resource == "" {
			errs = append(errs, fmt.Errorf("%s.resource is required", prefix))
		} else if !resourceRefs[a.Resource] {
			errs = append(errs, fmt.Errorf("%s.resource: ref %q not found in resources", prefix, a.Resource))
		}
		errs = append(errs, validateRange(prefix, a.Start, a.End)...)
		if a.TravelOut < 0 || a.TravelBack < 0 {
			errs = append(errs, fmt.Errorf("%s: travel days must not be negative", prefix))
		}
		if a.Override && strings.TrimSpace(a.OverrideReason) == "" {
			errs = append(errs, fmt.Errorf("%s.override_reason is required when override is set", prefix))
		}
	}
	return errs
}

func validateTasks(tasks []TaskPlan, refs map[string]bool) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}
		if t.Phase != "" && !refs[t.Phase] {
			errs = append(errs, fmt.Errorf("%s.phase: ref %q not found (must appear earlier in tasks)", prefix, t.Phase))
		}
		if t.Ref != "" {
			refs[t.Ref] = true
		}
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		errs = append(errs, validateRange(prefix, t.Start, t.End)...)
		if t.Status != "" && !domain.ValidTaskStatuses[domain.TaskStatus(strings.ToUpper(t.Status))] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Percent < 0 || t.Percent > 100 {
			errs = append(errs, fmt.Errorf("%s.percent must be between 0 and 100", prefix))
		}
	}
	return errs
}

func validateDependencies(deps []DependencyPlan, taskRefs map[string]bool) []error {
	var errs []error

	seen := make(map[[2]string]bool)
	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.From == "" {
			errs = append(errs, fmt.Errorf("%s.from is required", prefix))
		} else if !taskRefs[d.From] {
			errs = append(errs, fmt.Errorf("%s.from: ref %q not found in tasks", prefix, d.From))
		}
		if d.To == "" {
			errs = append(errs, fmt.Errorf("%s.to is required", prefix))
		} else if !taskRefs[d.To] {
			errs = append(errs, fmt.Errorf("%s.to: ref %q not found in tasks", prefix, d.To))
		}
		if d.From != "" && d.From == d.To {
			errs = append(errs, fmt.Errorf("%s: self-dependency on %q", prefix, d.From))
		}
		if _, err := domain.ParseDependencyType(d.Type); err != nil {
			errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
		}
		key := [2]string{d.From, d.To}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate dependency %s -> %s", prefix, d.From, d.To))
		}
		seen[key] = true
	}

	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}
	return errs
}

func validateOpenItems(items []OpenItemPlan, resourceRefs map[string]bool) []error {
	var errs []error

	for i, o := range items {
		prefix := fmt.Sprintf("open_items[%d]", i)

		if strings.TrimSpace(o.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if o.Priority != "" && !domain.ValidOpenItemPriorities[domain.OpenItemPriority(strings.ToUpper(o.Priority))] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, o.Priority))
		}
		if o.Due != "" {
			if _, err := domain.ParseDate(o.Due); err != nil {
				errs = append(errs, fmt.Errorf("%s.due: %w", prefix, err))
			}
		}
		if o.Owner != "" && !resourceRefs[o.Owner] {
			errs = append(errs, fmt.Errorf("%s.owner: ref %q not found in resources", prefix, o.Owner))
		}
	}
	return errs
}

func detectCycles(deps []DependencyPlan) []error {
	graph := make(map[string][]string)
	var nodes []string
	known := make(map[string]bool)
	for _, d := range deps {
		if d.From == "" || d.To == "" || d.From == d.To {
			continue
		}
		graph[d.From] = append(graph[d.From], d.To)
		for _, n := range []string{d.From, d.To} {
			if !known[n] {
				known[n] = true
				nodes = append(nodes, n)
			}
		}
	}

	const (
		white = iota // unvisited
		gray         // on the current path
		black        // done
	)
	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("circular dependency involving %q and %q", node, next))
				return true
			}
			if color[next] == white && visit(next) {
				return true
			}
		}
		color[node] = black
		return false
	}

	for _, n := range nodes {
		if color[n] == white {
			visit(n)
		}
	}
	return errs
}

func validateRange(prefix, start, end string) []error {
	var errs []error
	s, sErr := parseRequiredDate(prefix+".start", start)
	if sErr != nil {
		errs = append(errs, sErr)
	}
	e, eErr := parseRequiredDate(prefix+".end", end)
	if eErr != nil {
		errs = append(errs, eErr)
	}
	if sErr == nil && eErr == nil {
		if err := domain.NewDateRange(s, e).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}
