package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func crewplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// assignFormValues holds the raw strings a form edits before they are
// parsed back into assignFlags.
type assignFormValues struct {
	project, resource string
	start, end        string
	travelOut         string
	travelBack        string
	notes             string
}

// buildAssignForm asks only for what f does not already carry.
func buildAssignForm(ctx context.Context, app *App, f *assignFlags, v *assignFormValues) (*huh.Form, error) {
	var fields []huh.Field

	if f.project == "" {
		projects, err := app.Projects.List(ctx, false)
		if err != nil {
			return nil, err
		}
		if len(projects) == 0 {
			return nil, fmt.Errorf("no projects to book onto")
		}
		options := make([]huh.Option[string], 0, len(projects))
		for _, p := range projects {
			label := p.ID
			if p.Description != "" {
				label += "  " + p.Description
			}
			options = append(options, huh.NewOption(label, p.ID))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Project").Options(options...).Value(&v.project))
	}

	if f.resource == "" {
		resources, err := app.Resources.List(ctx, true)
		if err != nil {
			return nil, err
		}
		if len(resources) == 0 {
			return nil, fmt.Errorf("no active resources to book")
		}
		options := make([]huh.Option[string], 0, len(resources))
		for _, r := range resources {
			options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", r.Name, formatter.EnumLabel(string(r.Category))), r.ID))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Resource").Options(options...).Value(&v.resource))
	}

	if f.start.IsZero() {
		fields = append(fields, dateInput("First day on site", &v.start))
	}
	if f.end.IsZero() {
		fields = append(fields, dateInput("Last day on site", &v.end))
	}
	fields = append(fields,
		daysInput("Travel days out", &v.travelOut),
		daysInput("Travel days back", &v.travelBack),
		huh.NewInput().Title("Notes").Value(&v.notes),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(crewplanHuhTheme()).WithShowHelp(false), nil
}

// runAssignForm fills the blanks in f from an interactive form.
func runAssignForm(ctx context.Context, app *App, f *assignFlags) error {
	v := assignFormValues{
		travelOut:  strconv.Itoa(f.travelOut),
		travelBack: strconv.Itoa(f.travelBack),
		notes:      f.notes,
	}
	form, err := buildAssignForm(ctx, app, f, &v)
	if err != nil {
		return err
	}
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}
	return v.apply(f)
}

func (v assignFormValues) apply(f *assignFlags) error {
	if v.project != "" {
		f.project = v.project
	}
	if v.resource != "" {
		f.resource = v.resource
	}
	for _, d := range []struct {
		raw string
		dst *dateValue
	}{{v.start, &dateValue{p: &f.start}}, {v.end, &dateValue{p: &f.end}}} {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		if err := d.dst.Set(d.raw); err != nil {
			return err
		}
	}
	var err error
	if f.travelOut, err = atoiDefault(v.travelOut); err != nil {
		return err
	}
	if f.travelBack, err = atoiDefault(v.travelBack); err != nil {
		return err
	}
	f.notes = strings.TrimSpace(v.notes)
	return nil
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2024-06-30").
		Value(value).
		Validate(validateDate)
}

func daysInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("0").
		Value(value).
		Validate(validateNonNegativeInt)
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if _, err := atoiDefault(s); err != nil {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func atoiDefault(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number", s)
	}
	return n, nil
}
