package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/service"
	"github.com/spf13/cobra"
)

func newAssignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assign",
		Aliases: []string{"a"},
		Short:   "Book crew onto projects",
	}

	cmd.AddCommand(
		newAssignAddCmd(app),
		newAssignUpdateCmd(app),
		newAssignListCmd(app),
		newAssignDeleteCmd(app),
	)

	return cmd
}

type assignFlags struct {
	project, resource string
	start, end        time.Time
	travelOut         int
	travelBack        int
	override          string
	notes             string
}

func (f *assignFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.project, "project", "", "Project ID")
	fs.StringVar(&f.resource, "resource", "", "Resource ID, email or name")
	dateVar(fs, &f.start, "start", "First day on site")
	dateVar(fs, &f.end, "end", "Last day on site")
	fs.IntVar(&f.travelOut, "travel-out", 0, "Travel days before the start")
	fs.IntVar(&f.travelBack, "travel-back", 0, "Travel days after the end")
	fs.StringVar(&f.override, "override", "", "Book despite conflicts, giving the reason")
	fs.StringVar(&f.notes, "notes", "", "Free-text notes")
}

func newAssignAddCmd(app *App) *cobra.Command {
	var (
		f           assignFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book a crew member onto a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				if err := runAssignForm(ctx, app, &f); err != nil {
					return err
				}
			}
			if f.project == "" || f.resource == "" || f.start.IsZero() || f.end.IsZero() {
				return fmt.Errorf("--project, --resource, --start and --end are required (or use -i)")
			}

			resourceID, err := resolveResourceID(ctx, app, f.resource)
			if err != nil {
				return err
			}
			reason := strings.TrimSpace(f.override)
			a, err := app.Assignments.Create(ctx, service.CreateAssignmentRequest{
				ProjectID:      resolveProjectID(f.project),
				ResourceID:     resourceID,
				Start:          f.start,
				End:            f.end,
				TravelOutDays:  f.travelOut,
				TravelBackDays: f.travelBack,
				Override:       reason != "",
				OverrideReason: reason,
				Notes:          strings.TrimSpace(f.notes),
			})
			if err != nil {
				return withOverrideHint(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Booked %s on %s %s\n", formatter.Bold(f.resource), formatter.Bold(a.ProjectID),
				formatter.Span(a.Effective()))
			fmt.Fprintf(out, "  %s %s\n", formatter.Dim("id"), a.ID)
			if a.Override {
				fmt.Fprintln(out, formatter.StyleYellow.Render("  override: "+a.OverrideReason))
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in missing fields with a form")

	return cmd
}

func newAssignUpdateCmd(app *App) *cobra.Command {
	var f assignFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change an assignment's dates, travel or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Assignments.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("project") {
				a.ProjectID = resolveProjectID(f.project)
			}
			if flags.Changed("resource") {
				if a.ResourceID, err = resolveResourceID(ctx, app, f.resource); err != nil {
					return err
				}
			}
			if flags.Changed("start") {
				a.StartDate = f.start
			}
			if flags.Changed("end") {
				a.EndDate = f.end
			}
			if flags.Changed("travel-out") {
				a.TravelOutDays = f.travelOut
			}
			if flags.Changed("travel-back") {
				a.TravelBackDays = f.travelBack
			}
			if flags.Changed("override") {
				a.OverrideReason = strings.TrimSpace(f.override)
				a.Override = a.OverrideReason != ""
			}
			if flags.Changed("notes") {
				a.Notes = strings.TrimSpace(f.notes)
			}

			if err := app.Assignments.Update(ctx, a); err != nil {
				return withOverrideHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated assignment %s %s\n", formatter.Dim(a.ID), formatter.Span(a.Effective()))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newAssignListCmd(app *App) *cobra.Command {
	var (
		project, resource string
		from, to          time.Time
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments by project, resource or window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				assignments []*domain.Assignment
				err         error
			)
			switch {
			case project != "":
				assignments, err = app.Assignments.ListByProject(ctx, resolveProjectID(project))
			case resource != "":
				var id string
				if id, err = resolveResourceID(ctx, app, resource); err == nil {
					assignments, err = app.Assignments.ListByResource(ctx, id)
				}
			default:
				window := app.window(from, to)
				assignments, err = app.Assignments.ListInRange(ctx, window)
			}
			if err != nil {
				return err
			}

			conflicting, err := conflictingIDs(ctx, app, assignments)
			if err != nil {
				return err
			}
			names, err := resourceNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAssignmentList(assignments, names, conflicting))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&project, "project", "", "Only this project")
	fs.StringVar(&resource, "resource", "", "Only this resource")
	dateVar(fs, &from, "from", "Window start (default today)")
	dateVar(fs, &to, "to", "Window end (default from + window days)")

	return cmd
}

func newAssignDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted assignment %s\n", formatter.Dim(args[0]))
			return nil
		},
	}
}

// conflictingIDs sweeps the span covered by the listed assignments so a
// clash with a booking outside the list still flags the row.
func conflictingIDs(ctx context.Context, app *App, assignments []*domain.Assignment) (map[string]struct{}, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	span := assignments[0].Effective()
	for _, a := range assignments[1:] {
		eff := a.Effective()
		if eff.Start.Before(span.Start) {
			span.Start = eff.Start
		}
		if eff.End.After(span.End) {
			span.End = eff.End
		}
	}
	report, err := app.Conflicts.DetectAllConflicts(ctx, span)
	if err != nil {
		return nil, err
	}
	return report.IDs, nil
}

// window defaults to today plus the configured number of days.
func (a *App) window(from, to time.Time) domain.DateRange {
	if from.IsZero() {
		from = a.today()
	}
	if to.IsZero() {
		days := a.DefaultWindowDays
		if days <= 0 {
			days = 30
		}
		to = domain.AddDays(from, days)
	}
	return domain.NewDateRange(from, to)
}

func withOverrideHint(err error) error {
	var re *service.RuleError
	if errors.As(err, &re) && re.Kind == service.KindConflict {
		return fmt.Errorf("%w (pass --override REASON to book anyway)", err)
	}
	return err
}
