package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/spf13/cobra"
)

func newLeaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Record vacation, training and other unavailability",
	}

	cmd.AddCommand(
		newLeaveAddCmd(app),
		newLeaveListCmd(app),
		newLeaveDecisionCmd(app, "approve"),
		newLeaveDecisionCmd(app, "reject"),
		newLeaveDeleteCmd(app),
	)

	return cmd
}

func newLeaveAddCmd(app *App) *cobra.Command {
	var (
		typ, reason string
		start, end  time.Time
		approved    bool
	)

	cmd := &cobra.Command{
		Use:   "add RESOURCE",
		Short: "Record leave for a crew member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveResourceID(ctx, app, args[0])
			if err != nil {
				return err
			}
			u := &domain.Unavailability{
				ResourceID: id,
				Type:       domain.UnavailabilityType(enumArg(typ)),
				StartDate:  start,
				EndDate:    end,
				Reason:     strings.TrimSpace(reason),
			}
			if approved {
				u.Approval = domain.ApprovalApproved
			}
			if err := app.Unavailability.Create(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %s\n",
				strings.ToLower(formatter.EnumLabel(string(u.Type))), u.Range(), formatter.ApprovalPill(u.Approval))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&typ, "type", "", "VACATION, TRAINING, SICK_LEAVE, PERSONAL or OTHER")
	fs.StringVar(&reason, "reason", "", "Free-text reason")
	fs.BoolVar(&approved, "approved", false, "Record as already approved")
	dateVar(fs, &start, "start", "First day away")
	dateVar(fs, &end, "end", "Last day away")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newLeaveListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list RESOURCE",
		Short: "List leave for a crew member",
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
			leave, err := app.Unavailability.ListByResource(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeaveList(r.Name, leave))
			return nil
		},
	}
}

func newLeaveDecisionCmd(app *App, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decide := app.Unavailability.Approve
			done := "Approved"
			if verb == "reject" {
				decide = app.Unavailability.Reject
				done = "Rejected"
			}
			if err := decide(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s leave %s\n", done, formatter.Dim(args[0]))
			return nil
		},
	}
}

func newLeaveDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a leave record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Unavailability.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted leave %s\n", formatter.Dim(args[0]))
			return nil
		},
	}
}
