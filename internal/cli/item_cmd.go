package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "Track a project's open items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemResolveCmd(app),
		newItemDeleteCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		priority, owner string
		due             time.Time
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT TITLE",
		Short: "Add an open item to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o := &domain.OpenItem{
				ProjectID: resolveProjectID(args[0]),
				Title:     strings.TrimSpace(args[1]),
				Priority:  domain.OpenItemPriority(enumArg(priority)),
			}
			if !due.IsZero() {
				o.DueDate = &due
			}
			if owner != "" {
				id, err := resolveResourceID(ctx, app, owner)
				if err != nil {
					return err
				}
				o.OwnerID = &id
			}
			if err := app.OpenItems.Create(ctx, o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n  %s %s\n",
				formatter.PriorityPill(o.Priority), formatter.Bold(o.Title), formatter.Dim("id"), o.ID)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&priority, "priority", "", "LOW, MEDIUM, HIGH or CRITICAL")
	fs.StringVar(&owner, "owner", "", "Owner (resource ID, email or name)")
	dateVar(fs, &due, "due", "Due date")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's open items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := app.OpenItems.ListByProject(ctx, resolveProjectID(args[0]))
			if err != nil {
				return err
			}
			names, err := resourceNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOpenItems(items, names, app.today()))
			return nil
		},
	}
}

func newItemResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ID",
		Short: "Mark an open item resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OpenItems.Resolve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %s\n", formatter.Dim(args[0]))
			return nil
		},
	}
}

func newItemDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an open item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OpenItems.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Dim(args[0]))
			return nil
		},
	}
}
