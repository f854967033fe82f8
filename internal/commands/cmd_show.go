package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/colonyops/convtodo/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	app   *tracker.App

	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *tracker.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show every field of a conversion task",
		UsageText: "convtodo show <guid> [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action:        cmd.run,
		ShellComplete: GUIDCompleter(cmd.app),
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	guid, err := guidArg(c)
	if err != nil {
		return err
	}

	item, err := cmd.app.Todos.Get(ctx, guid)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, newItemRecord(guid, item))
	}

	p := newPrinter(out, cmd.app.Config)
	p.Printf("%s", p.GUID(guid))
	p.Printf("%s", item.String())
	p.Printf("")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range item.Keys() {
		value, _ := item.Get(key)
		_, _ = fmt.Fprintf(w, "%s:\t%s\n", key, value)
	}
	return w.Flush()
}
