package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/colonyops/convtodo/pkg/iojson"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
)

type ImportCmd struct {
	flags *Flags
	app   *tracker.App
	fr    *iojson.FileReader[tracker.ImportBatch]

	force      bool
	jsonOutput bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *tracker.App) *ImportCmd {
	return &ImportCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[tracker.ImportBatch]{},
	}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "import",
		Usage: "Add many conversion tasks from JSON input",
		UsageText: `convtodo import [options]

Read from stdin:
  echo '{"items":[{"guid":"77bc","kind":"Prefab","fields":{"unity_path":"Assets/Door.prefab","godot_path":"res://door.tscn"}}]}' | convtodo import

Read from file:
  convtodo import -i tasks.json`,
		Description: `Imports tasks from a JSON document of the form

  {"items": [{"guid": "...", "kind": "...", "fields": {"key": "value"}}]}

The whole batch is validated before anything is written: every GUID must
be unique, every kind known and every required field present. GUIDs
already in the todo file are rejected unless --force is given.

With --json the result is written to stdout as {"imported": n, "guids": [...]},
or as an error envelope {"message": ..., "data": {"errors": [...]}} when the
import fails.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "replace tasks whose GUID already exists",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "report the result as JSON on stdout",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if r := c.Root().Reader; r != nil && r != os.Stdin {
		cmd.fr.Stdin = r
	}

	out := c.Root().Writer

	batch, err := cmd.fr.Read()
	if err != nil {
		if cmd.jsonOutput {
			_ = iojson.WriteErrorTo(out, "read input", map[string]any{"errors": toValidationErrors(err)})
		}
		return err
	}

	n, err := cmd.app.Todos.Import(ctx, batch, cmd.force)
	if err != nil {
		problems := toValidationErrors(err)
		if cmd.jsonOutput {
			_ = iojson.WriteErrorTo(out, "invalid input", map[string]any{"errors": problems})
			return fmt.Errorf("import: %w", err)
		}

		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("import: %w", err)
		}

		p := newPrinter(c.Root().ErrWriter, cmd.app.Config)
		for _, pr := range problems {
			p.Errorf("%s: %s", pr.Field, pr.Message)
		}
		return fmt.Errorf("import: %d problem(s) found, nothing written", len(problems))
	}

	if cmd.jsonOutput {
		guids := make([]string, 0, len(batch.Items))
		for _, it := range batch.Items {
			guids = append(guids, it.GUID)
		}
		return iojson.WriteWith(out, c.Root().ErrWriter, importResult{Imported: n, GUIDs: guids})
	}

	newPrinter(c.Root().Writer, cmd.app.Config).Successf("Imported %d item(s)", n)
	return nil
}

// importResult is the JSON output of convtodo import --json.
type importResult struct {
	Imported int      `json:"imported"`
	GUIDs    []string `json:"guids"`
}
