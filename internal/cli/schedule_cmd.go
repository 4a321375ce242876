package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/spf13/cobra"
)

func newAvailableCmd(app *App) *cobra.Command {
	var start, end time.Time

	cmd := &cobra.Command{
		Use:   "available RESOURCE",
		Short: "Check whether a crew member is free for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveResourceID(ctx, app, args[0])
			if err != nil {
				return err
			}
			r, err := app.Resources.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if end.IsZero() {
				end = start
			}
			av, err := app.Availability.Check(ctx, id, domain.NewDateRange(start, end))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAvailability(r.Name, av))
			return nil
		},
	}

	dateVar(cmd.Flags(), &start, "start", "First day")
	dateVar(cmd.Flags(), &end, "end", "Last day (default same as start)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newConflictsCmd(app *App) *cobra.Command {
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List double-bookings in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			report, err := app.Conflicts.DetectAllConflicts(ctx, app.window(from, to))
			if err != nil {
				return err
			}
			names, err := resourceNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatConflicts(report.Window, report.Pairs, names))
			return nil
		},
	}

	dateVar(cmd.Flags(), &from, "from", "Window start (default today)")
	dateVar(cmd.Flags(), &to, "to", "Window end (default from + window days)")

	return cmd
}

func newCriticalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "critical PROJECT",
		Short: "Show the critical path and slack for a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := resolveProjectID(args[0])
			res, err := app.Tasks.Schedule(ctx, id)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(res, taskTitles(tasks)))
			return nil
		},
	}
}
