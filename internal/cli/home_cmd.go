package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/service"
	"github.com/spf13/cobra"
)

func newHomeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Manage homes and their forecasts",
	}

	cmd.AddCommand(
		newHomeCreateCmd(app),
		newHomeListCmd(app),
		newHomeShowCmd(app),
		newHomeForecastCmd(app),
	)

	return cmd
}

func newHomeCreateCmd(app *App) *cobra.Command {
	var (
		label         string
		start, target dateFlag
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a home from the current template",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CreateHomeRequest{Label: label, TargetCompletion: target.value}
			if start.value != nil {
				req.StartDate = *start.value
			} else {
				req.StartDate = time.Now().UTC()
			}
			home, report, err := app.Homes.CreateHome(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created home %s %s\n", formatter.Bold(home.Label), formatter.TruncID(home.ID))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatForecast(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Home label, e.g. a lot number")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().Var(&target, "target", "Target completion date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func newHomeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List homes",
		RunE: func(cmd *cobra.Command, args []string) error {
			homes, err := app.Homes.ListHomes(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHomeList(homes))
			return nil
		},
	}
}

func newHomeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show HOME",
		Short: "Show a home's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveHomeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			home, err := app.Homes.GetHome(ctx, id)
			if err != nil {
				return err
			}
			tasks, err := app.Homes.ListTasks(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHomeTasks(home, tasks))
			return nil
		},
	}
}

func newHomeForecastCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast HOME",
		Short: "Recompute and show a home's forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveHomeID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			report, err := app.Homes.RecomputeForecast(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatForecast(report))
			return nil
		},
	}
}
