package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/convtodo/internal/core/todo"
	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/urfave/cli/v3"
)

// GUIDCompleter returns a ShellCompleteFunc that suggests the GUIDs in the
// todo file as positional completions. Set this as the ShellComplete field on
// any cli.Command that takes a GUID as its first argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func GUIDCompleter(app *tracker.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
			// only the first positional argument is a GUID
			return
		}

		if app.Todos == nil {
			return
		}

		entries, err := app.Todos.List(ctx, todo.Query{})
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, e := range entries {
			_, _ = fmt.Fprintln(w, e.GUID)
		}
	}
}
