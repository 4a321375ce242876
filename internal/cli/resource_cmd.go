package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/spf13/cobra"
)

func newResourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource",
		Aliases: []string{"res", "r"},
		Short:   "Manage crew members",
	}

	cmd.AddCommand(
		newResourceAddCmd(app),
		newResourceListCmd(app),
		newResourceUpdateCmd(app),
		newResourceDeactivateCmd(app),
		newResourceDeleteCmd(app),
	)

	return cmd
}

func newResourceAddCmd(app *App) *cobra.Command {
	var email, category string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a crew member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &domain.Resource{
				Name:     strings.TrimSpace(args[0]),
				Email:    optionalString(email),
				Category: domain.ResourceCategory(enumArg(category)),
			}
			if err := app.Resources.Create(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", formatter.Bold(r.Name), formatter.Dim(r.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (unique)")
	cmd.Flags().StringVar(&category, "category", "", "INTERNAL, FIELD_TECHNICIAN, CONTRACTOR or EXTERNAL")

	return cmd
}

func newResourceListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List crew members",
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := app.Resources.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatResourceList(resources))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive resources")

	return cmd
}

func newResourceUpdateCmd(app *App) *cobra.Command {
	var name, email, category string

	cmd := &cobra.Command{
		Use:   "update RESOURCE",
		Short: "Update a crew member",
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

			flags := cmd.Flags()
			if flags.Changed("name") {
				r.Name = strings.TrimSpace(name)
			}
			if flags.Changed("email") {
				r.Email = optionalString(email)
			}
			if flags.Changed("category") {
				r.Category = domain.ResourceCategory(enumArg(category))
			}

			if err := app.Resources.Update(ctx, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(r.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&email, "email", "", "New email (empty clears it)")
	cmd.Flags().StringVar(&category, "category", "", "New category")

	return cmd
}

func newResourceDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate RESOURCE",
		Short: "Hide a crew member from active lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveResourceID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Resources.Deactivate(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s\n", formatter.Dim(id))
			return nil
		},
	}
}

func newResourceDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RESOURCE",
		Short: "Delete a crew member with no assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveResourceID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Resources.Delete(ctx, id); err != nil {
				return err
			}
			// Owners on open items are nulled by the schema.
			app.OpenItems.InvalidateAll()
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Dim(id))
			return nil
		},
	}
}
