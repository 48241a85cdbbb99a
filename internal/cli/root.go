package cli

import (
	"github.com/alexanderramin/homeplan/internal/cli/formatter"
	"github.com/alexanderramin/homeplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Templates service.TemplateService
	Homes     service.HomeService
	Tasks     service.TaskService
	Gates     service.GateService
	Punches   service.PunchService

	// Plain is the default for --plain, set when stdout is not a terminal.
	Plain bool
}

// NewRootCmd creates the top-level "homeplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	plain := app.Plain
	root := &cobra.Command{
		Use:           "homeplan",
		Short:         "Construction scheduling across homes: forecasts, gates and punch lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			formatter.SetPlain(plain)
		},
	}
	root.PersistentFlags().BoolVar(&plain, "plain", app.Plain, "Render without boxes")

	root.AddCommand(
		newTemplateCmd(app),
		newHomeCmd(app),
		newTaskCmd(app),
		newPunchCmd(app),
		newGateCmd(app),
	)

	return root
}
