package cli

import (
	"fmt"

	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/spf13/cobra"
)

func newGateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Inspect gate rules",
	}
	cmd.AddCommand(newGateCheckCmd(app))
	return cmd
}

func newGateCheckCmd(app *App) *cobra.Command {
	var (
		homeInput, kind string
		sortOrder       int
	)

	cmd := &cobra.Command{
		Use:   "check TASK",
		Short: "Check whether a transition would be blocked, without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), app, homeInput, args[0])
			if err != nil {
				return err
			}
			req := contract.NewGateCheckRequest(taskID, domain.TransitionKind(kind))
			if cmd.Flags().Changed("sort-order") {
				req.SortOrder = &sortOrder
			}
			resp, err := app.Gates.Check(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGateCheck(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&homeInput, "home", "", "Home label or ID, enables task lookup by name")
	cmd.Flags().StringVar(&kind, "kind", string(domain.KindSchedule), "Transition to check")
	cmd.Flags().IntVar(&sortOrder, "sort-order", 0, "Check as if the task sat at this sort order")

	return cmd
}
