package cli

import (
	"fmt"

	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Move home tasks through their lifecycle",
	}

	cmd.AddCommand(
		newTransitionCmd(app, "schedule", "Schedule an unscheduled task", domain.KindSchedule),
		newTransitionCmd(app, "reschedule", "Move a scheduled task to a new date", domain.KindReschedule),
		newTransitionCmd(app, "request-confirm", "Ask the contractor to confirm", domain.KindRequestConfirm),
		newTransitionCmd(app, "confirm", "Record the contractor's confirmation", domain.KindConfirm),
		newTransitionCmd(app, "complete", "Mark a task completed", domain.KindComplete),
		newTransitionCmd(app, "cancel", "Cancel a task", domain.KindCancel),
		newTransitionCmd(app, "decline", "Record that the contractor declined", domain.KindDecline),
	)

	return cmd
}

// newTransitionCmd builds one lifecycle command. A gate rejection is printed
// and returned as a *domain.GateBlockedError so scripts see a failure.
func newTransitionCmd(app *App, use, short string, kind domain.TransitionKind) *cobra.Command {
	var (
		homeInput, contractor string
		date                  dateFlag
		permanent             bool
	)

	cmd := &cobra.Command{
		Use:   use + " TASK",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, homeInput, args[0])
			if err != nil {
				return err
			}

			req := contract.NewTransitionRequest(taskID, kind)
			req.ScheduledDate = date.value
			req.ContractorID = optionalString(cmd.Flags(), "contractor", contractor)
			req.Permanent = permanent

			res, err := app.Tasks.Transition(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(res))
			if r := res.Rejection; r != nil {
				return &domain.GateBlockedError{
					GateName:       r.BlockingGateName,
					GateTaskID:     r.BlockingTaskID,
					OpenPunchCount: r.OpenPunchCount,
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&homeInput, "home", "", "Home label or ID, enables task lookup by name")
	switch kind {
	case domain.KindSchedule, domain.KindReschedule:
		cmd.Flags().Var(&date, "date", "Scheduled date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&contractor, "contractor", "", "Contractor ID")
		_ = cmd.MarkFlagRequired("date")
	case domain.KindCancel:
		cmd.Flags().BoolVar(&permanent, "permanent", false, "Remove the task from the forecast for good")
	}

	return cmd
}
