package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/crewplan/internal/domain"
)

// resolveResourceID accepts a full ID, an email, a unique ID prefix or a
// unique case-insensitive name.
func resolveResourceID(ctx context.Context, app *App, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("resource reference is required")
	}

	resources, err := app.Resources.List(ctx, false)
	if err != nil {
		return "", err
	}

	for _, r := range resources {
		if r.ID == ref || (r.Email != nil && strings.EqualFold(*r.Email, ref)) {
			return r.ID, nil
		}
	}

	var byPrefix, byName []*domain.Resource
	for _, r := range resources {
		if strings.HasPrefix(r.ID, ref) {
			byPrefix = append(byPrefix, r)
		}
		if strings.EqualFold(r.Name, ref) {
			byName = append(byName, r)
		}
	}
	for _, matches := range [][]*domain.Resource{byPrefix, byName} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0].ID, nil
		default:
			names := make([]string, len(matches))
			for i, r := range matches {
				names[i] = fmt.Sprintf("%s (%s)", r.Name, r.ID[:min(8, len(r.ID))])
			}
			sort.Strings(names)
			return "", fmt.Errorf("resource %q is ambiguous: %s", ref, strings.Join(names, ", "))
		}
	}
	return "", fmt.Errorf("no resource matches %q", ref)
}

// resourceNames maps every resource ID to its display name.
func resourceNames(ctx context.Context, app *App) (map[string]string, error) {
	resources, err := app.Resources.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(resources))
	for _, r := range resources {
		names[r.ID] = r.Name
	}
	return names, nil
}

// resolveProjectID upper-cases the business key so "prj-2024-0001" works.
func resolveProjectID(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

func taskTitles(tasks []*domain.Task) map[string]string {
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles
}
