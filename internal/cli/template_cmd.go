package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/importer"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage the shared work-item template",
	}

	cmd.AddCommand(
		newTemplateAddCmd(app),
		newTemplateListCmd(app),
		newTemplateRemoveCmd(app),
		newTemplateDepsCmd(app),
		newTemplateImportCmd(app),
	)

	return cmd
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var (
		name, category, gateName, scope, mode string
		duration, sortOrder                   int
		gate                                  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a template item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.TemplateItem{
				Name:           name,
				DurationDays:   duration,
				SortOrder:      sortOrder,
				Category:       optionalString(cmd.Flags(), "category", category),
				IsCriticalGate: gate,
				GateScope:      domain.GateScope(scope),
				GateBlockMode:  domain.GateBlockMode(mode),
				GateName:       optionalString(cmd.Flags(), "gate-name", gateName),
			}
			if err := app.Templates.CreateItem(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", formatter.Bold(item.Name), formatter.TruncID(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().IntVar(&duration, "days", 1, "Duration in working days")
	cmd.Flags().IntVar(&sortOrder, "sort-order", 0, "Position in the template")
	cmd.Flags().StringVar(&category, "category", "", "Category, shared with punch items")
	cmd.Flags().BoolVar(&gate, "gate", false, "Mark the item as a critical gate")
	cmd.Flags().StringVar(&gateName, "gate-name", "", "Gate label (defaults to category, then name)")
	cmd.Flags().StringVar(&scope, "gate-scope", string(domain.GateScopeDownstreamOnly), "downstream_only or all")
	cmd.Flags().StringVar(&mode, "gate-mode", string(domain.GateBlockScheduleOnly), "schedule_only, schedule_and_confirm or all")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List template items with their dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Templates.ListItems(cmd.Context())
			if err != nil {
				return err
			}
			deps, err := app.Templates.ListDependencies(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateItems(items, deps))
			return nil
		},
	}
}

func newTemplateRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ITEM",
		Short: "Remove a template item no home uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveItemID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Templates.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newTemplateDepsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deps ITEM [DEPENDS_ON...]",
		Short: "Replace the dependencies of a template item",
		Long:  "Replace the dependencies of a template item. With no DEPENDS_ON the item's dependencies are cleared.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			itemID, err := resolveItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			dependsOn := make([]string, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := resolveItemID(ctx, app, arg)
				if err != nil {
					return err
				}
				dependsOn = append(dependsOn, id)
			}

			deps, err := app.Templates.SetDependencies(ctx, itemID, dependsOn)
			var cycle *domain.CycleError
			if errors.As(err, &cycle) {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRejection(contract.NewCycleRejection(cycle)))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %d items\n", args[0], len(deps))
			return nil
		},
	}
}

func newTemplateImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import template items from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadTemplateSchema(args[0])
			if err != nil {
				return err
			}
			res, err := app.Templates.Import(cmd.Context(), schema)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportSummary(res.ItemCount, res.DependencyCount))
			return nil
		},
	}
}
