package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/scheduler"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage project tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskMoveCmd(app),
		newTaskCascadeCmd(app),
		newTaskProgressCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		phase, status string
		start, end    time.Time
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT TITLE",
		Short: "Add a task to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				ProjectID: resolveProjectID(args[0]),
				ParentID:  optionalString(phase),
				Title:     args[1],
				StartDate: start,
				EndDate:   end,
				Status:    domain.TaskStatus(enumArg(status)),
			}
			if err := app.Tasks.Create(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s %s\n  %s %s\n",
				formatter.Bold(t.Title), formatter.Span(t.Range()), formatter.Dim("id"), t.ID)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&phase, "phase", "", "Parent task ID")
	fs.StringVar(&status, "status", "", "NOT_STARTED, IN_PROGRESS, COMPLETED, BLOCKED or CANCELLED")
	dateVar(fs, &start, "start", "Start date")
	dateVar(fs, &end, "end", "End date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var critical bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := resolveProjectID(args[0])
			tasks, err := app.Tasks.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			var marked map[string]struct{}
			if critical {
				if marked, err = app.Tasks.FindCriticalPath(ctx, id); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, marked))
			return nil
		},
	}

	cmd.Flags().BoolVar(&critical, "critical", false, "Star tasks on the critical path")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var start, end time.Time

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Reschedule a task and push its dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := app.Tasks.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if end.IsZero() {
				end = domain.AddDays(start, t.DurationDays())
			}
			shifts, err := app.Tasks.UpdateDates(ctx, t.ID, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", formatter.Bold(t.Title), formatter.Span(domain.NewDateRange(start, end)))
			return printShifts(ctx, cmd, app, t.ProjectID, shifts)
		},
	}

	dateVar(cmd.Flags(), &start, "start", "New start date")
	dateVar(cmd.Flags(), &end, "end", "New end date (default keeps the duration)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newTaskCascadeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cascade ID",
		Short: "Re-apply a task's dependency rules to everything downstream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := app.Tasks.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			shifts, err := app.Tasks.CascadeDates(ctx, t.ID)
			if err != nil {
				return err
			}
			return printShifts(ctx, cmd, app, t.ProjectID, shifts)
		},
	}
}

func printShifts(ctx context.Context, cmd *cobra.Command, app *App, projectID string, shifts []scheduler.DateShift) error {
	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatShifts(shifts, taskTitles(tasks)))
	return nil
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Record percent complete (0 to 100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("percent must be a whole number, got %q", args[1])
			}
			ctx := cmd.Context()
			if err := app.Tasks.SetProgress(ctx, args[0], pct); err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %d%% done %s\n", formatter.Bold(t.Title), t.PercentComplete,
				formatter.TaskStatusPill(t.Status))
			return nil
		},
	}
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task and its dependency edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", formatter.Dim(args[0]))
			return nil
		},
	}
}

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepRemoveCmd(app),
		newDepCheckCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var (
		typ string
		lag int
	)

	cmd := &cobra.Command{
		Use:   "add PREDECESSOR SUCCESSOR",
		Short: "Make SUCCESSOR depend on PREDECESSOR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			depType, err := domain.ParseDependencyType(typ)
			if err != nil {
				return err
			}
			d := domain.TaskDependency{PredecessorID: args[0], SuccessorID: args[1], Type: depType, LagDays: lag}
			if err := app.Tasks.AddDependency(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s → %s (%s, lag %dd)\n",
				formatter.Dim(d.PredecessorID), formatter.Dim(d.SuccessorID), depType.Short(), lag)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "FS", "FS, SS, FF or SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days (negative for lead)")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PREDECESSOR SUCCESSOR",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.RemoveDependency(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s → %s\n", formatter.Dim(args[0]), formatter.Dim(args[1]))
			return nil
		},
	}
}

func newDepCheckCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "check PREDECESSOR SUCCESSOR",
		Short: "Report whether a dependency could be added",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			depType, err := domain.ParseDependencyType(typ)
			if err != nil {
				return err
			}
			ok, err := app.Tasks.ValidateDependency(cmd.Context(), args[0], args[1], depType)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ dependency is valid"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warn("✖ dependency would be rejected"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "FS", "FS, SS, FF or SF")

	return cmd
}
