package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"proj", "p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectDeleteCmd(app),
	)

	return cmd
}

type projectFlags struct {
	description string
	status      string
	manager     string
	start, end  time.Time
	budget      *decimal.Decimal
	revenue     *decimal.Decimal
	costs       *decimal.Decimal
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.description, "desc", "", "Project description")
	fs.StringVar(&f.status, "status", "", "PLANNED, ACTIVE, COMPLETED, DELAYED or CANCELLED")
	fs.StringVar(&f.manager, "manager", "", "Manager (resource ID, email or name)")
	dateVar(fs, &f.start, "start", "Start date")
	dateVar(fs, &f.end, "end", "End date")
	decimalVar(fs, &f.budget, "budget", "Budget amount")
	decimalVar(fs, &f.revenue, "revenue", "Revenue amount")
	decimalVar(fs, &f.costs, "costs", "Costs to date")
}

func newProjectAddCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Create a new project (ID like ABC-2024-0001)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{
				ID:          resolveProjectID(args[0]),
				Description: strings.TrimSpace(f.description),
				Status:      domain.ProjectStatus(enumArg(f.status)),
				StartDate:   f.start,
				EndDate:     f.end,
				Budget:      f.budget,
				Revenue:     f.revenue,
				Costs:       f.costs,
			}
			if f.manager != "" {
				id, err := resolveResourceID(ctx, app, f.manager)
				if err != nil {
					return err
				}
				p.ManagerID = &id
			}

			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created project %s (%s)\n", formatter.Bold(p.ID), p.Range())
			if !p.ConventionalID() {
				fmt.Fprintln(out, formatter.Dim("Note: project IDs usually look like ABC-2024-0001."))
			}
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include soft-deleted projects")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project with its crew, tasks and open items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := resolveProjectID(args[0])

			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			assignments, err := app.Assignments.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			items, err := app.OpenItems.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			names, err := resourceNames(ctx, app)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectDetail(formatter.ProjectDetailData{
				Project:     p,
				Assignments: assignments,
				Tasks:       tasks,
				OpenItems:   items,
				Names:       names,
				Today:       app.today(),
			}))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.GetByID(ctx, resolveProjectID(args[0]))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("desc") {
				p.Description = strings.TrimSpace(f.description)
			}
			if flags.Changed("status") {
				p.Status = domain.ProjectStatus(enumArg(f.status))
			}
			if flags.Changed("start") {
				p.StartDate = f.start
			}
			if flags.Changed("end") {
				p.EndDate = f.end
			}
			if flags.Changed("budget") {
				p.Budget = f.budget
			}
			if flags.Changed("revenue") {
				p.Revenue = f.revenue
			}
			if flags.Changed("costs") {
				p.Costs = f.costs
			}
			if flags.Changed("manager") {
				p.ManagerID = nil
				if f.manager != "" {
					id, err := resolveResourceID(ctx, app, f.manager)
					if err != nil {
						return err
					}
					p.ManagerID = &id
				}
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.Bold(p.ID))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project (soft by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := resolveProjectID(args[0])
			if err := app.Projects.Delete(cmd.Context(), id, !hard); err != nil {
				return err
			}
			app.OpenItems.Invalidate(id)
			verb := "Cancelled"
			if hard {
				verb = "Deleted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s project %s\n", verb, formatter.Bold(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "Remove the project with its tasks and open items")

	return cmd
}
