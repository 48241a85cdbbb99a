package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/service"
	"github.com/spf13/cobra"
)

func newPunchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "punch",
		Short: "Manage punch list items",
	}

	cmd.AddCommand(
		newPunchAddCmd(app),
		newPunchListCmd(app),
		newPunchUpdateCmd(app, "review", "Mark a punch item ready for review", service.PunchService.ReadyForReview),
		newPunchUpdateCmd(app, "close", "Close a punch item", service.PunchService.Close),
		newPunchUpdateCmd(app, "reopen", "Reopen a closed punch item", service.PunchService.Reopen),
	)

	return cmd
}

func newPunchAddCmd(app *App) *cobra.Command {
	var homeInput, title, category, severity string

	cmd := &cobra.Command{
		Use:   "add TASK",
		Short: "Open a punch item against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, homeInput, args[0])
			if err != nil {
				return err
			}
			p, err := app.Punches.Open(ctx, service.OpenPunchRequest{
				TaskID:   taskID,
				Title:    title,
				Category: optionalString(cmd.Flags(), "category", category),
				Severity: domain.PunchSeverity(severity),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPunch(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&homeInput, "home", "", "Home label or ID, enables task lookup by name")
	cmd.Flags().StringVar(&title, "title", "", "What needs fixing")
	cmd.Flags().StringVar(&category, "category", "", "Category (defaults to the task's)")
	cmd.Flags().StringVar(&severity, "severity", string(domain.SeverityMedium), "low, medium, high or critical")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPunchListCmd(app *App) *cobra.Command {
	var openOnly bool

	cmd := &cobra.Command{
		Use:     "list HOME",
		Aliases: []string{"ls"},
		Short:   "List a home's punch items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			homeID, err := resolveHomeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			items, err := app.Punches.ListByHome(ctx, homeID, openOnly)
			if err != nil {
				return err
			}
			tasks, err := app.Homes.ListTasks(ctx, homeID)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(tasks))
			for _, t := range tasks {
				names[t.ID] = t.NameSnapshot
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPunchList(items, names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "Only items that still count against gates")

	return cmd
}

func newPunchUpdateCmd(app *App, use, short string, fn func(service.PunchService, context.Context, string) (*domain.PunchItem, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PUNCH",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePunchID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := fn(app.Punches, cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPunch(p))
			return nil
		},
	}
}
