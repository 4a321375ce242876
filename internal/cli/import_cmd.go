package cli

import (
	"fmt"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project plan from YAML",
		Long: `Import a project with its crew, bookings, tasks, dependencies and open
items from one YAML file. Every booking goes through the same conflict
rules as 'assign add'; any failure leaves the database untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported project %s %s\n", formatter.Bold(res.Project.ID), formatter.Span(res.Project.Range()))
			fmt.Fprintf(out, "  %d new resource(s), %d assignment(s), %d task(s), %d dependency(ies)\n",
				res.ResourceCount, res.AssignmentCount, res.TaskCount, res.DependencyCount)
			return nil
		},
	}
}
