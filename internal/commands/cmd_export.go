package commands

import (
	"context"

	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/urfave/cli/v3"
)

type ExportCmd struct {
	flags *Flags
	app   *tracker.App
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *tracker.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "export",
		Usage:       "Write the todo document to stdout",
		UsageText:   "convtodo export",
		Description: "Prints the todo file as normalized YAML: GUIDs sorted, keys in canonical order, defaults filled in.",
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.app.Todos.Export(ctx, c.Root().Writer)
		},
	})

	return app
}
