package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/convtodo/internal/core/validate"
	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/urfave/cli/v3"
)

// ItemCmd implements the commands that change a single conversion task.
type ItemCmd struct {
	flags *Flags
	app   *tracker.App

	info string
}

// NewItemCmd creates the item mutation commands.
func NewItemCmd(flags *Flags, app *tracker.App) *ItemCmd {
	return &ItemCmd{flags: flags, app: app}
}

// Register adds done, fail, reopen, status, info, set and rm to the application.
func (cmd *ItemCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		cmd.doneCmd(),
		cmd.failCmd(),
		cmd.reopenCmd(),
		cmd.statusCmd(),
		cmd.infoCmd(),
		cmd.setCmd(),
		cmd.rmCmd(),
	)

	return app
}

func (cmd *ItemCmd) infoFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:        "info",
		Aliases:     []string{"m"},
		Usage:       usage,
		Destination: &cmd.info,
	}
}

func (cmd *ItemCmd) doneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a conversion task as Done",
		UsageText: "convtodo done <guid> [--info <message>]",
		Description: `Sets the status to Done. Without --info the configured done_info
message is recorded.`,
		Flags:         []cli.Flag{cmd.infoFlag("info message (defaults to done_info from config)")},
		Action:        cmd.runDone,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) failCmd() *cli.Command {
	return &cli.Command{
		Name:          "fail",
		Usage:         "Mark a conversion task as Failed",
		UsageText:     "convtodo fail <guid> [--info <message>]",
		Flags:         []cli.Flag{cmd.infoFlag("what went wrong")},
		Action:        cmd.runFail,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) reopenCmd() *cli.Command {
	return &cli.Command{
		Name:          "reopen",
		Usage:         "Set a conversion task back to Open, keeping its info",
		UsageText:     "convtodo reopen <guid>",
		Action:        cmd.runReopen,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Set an arbitrary status",
		UsageText: "convtodo status <guid> <status> [--info <message>]",
		Description: `Sets status and info together. Any non-empty status is accepted.

Examples:
  convtodo status 3f9a "Needs review" --info "lighting differs"`,
		Flags:         []cli.Flag{cmd.infoFlag("info message")},
		Action:        cmd.runStatus,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) infoCmd() *cli.Command {
	return &cli.Command{
		Name:          "info",
		Usage:         "Replace the info message without changing the status",
		UsageText:     "convtodo info <guid> <message>",
		Action:        cmd.runInfo,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) setCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set one or more fields",
		UsageText: "convtodo set <guid> <key=value>...",
		Description: `Writes fields on an existing task. The type cannot be changed and
required fields cannot be cleared.

Examples:
  convtodo set 3f9a godot_path=res://shaders/toon.gdshader owner=ana`,
		Action:        cmd.runSet,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:          "rm",
		Aliases:       []string{"remove"},
		Usage:         "Remove a conversion task",
		UsageText:     "convtodo rm <guid>",
		Action:        cmd.runRemove,
		ShellComplete: GUIDCompleter(cmd.app),
	}
}

func (cmd *ItemCmd) runDone(ctx context.Context, c *cli.Command) error {
	guid, err := guidArg(c)
	if err != nil {
		return err
	}
	if err := cmd.app.Todos.MarkDone(ctx, guid, cmd.info); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s marked Done", guid)
	return nil
}

func (cmd *ItemCmd) runFail(ctx context.Context, c *cli.Command) error {
	guid, err := guidArg(c)
	if err != nil {
		return err
	}
	if err := cmd.app.Todos.MarkFailed(ctx, guid, cmd.info); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s marked Failed", guid)
	return nil
}

func (cmd *ItemCmd) runReopen(ctx context.Context, c *cli.Command) error {
	guid, err := guidArg(c)
	if err != nil {
		return err
	}
	if err := cmd.app.Todos.Reopen(ctx, guid); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s reopened", guid)
	return nil
}

func (cmd *ItemCmd) runStatus(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	guid, status := c.Args().Get(0), c.Args().Get(1)

	if err := cmd.app.Todos.UpdateStatus(ctx, guid, status, cmd.info); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s status set to %s", guid, status)
	return nil
}

func (cmd *ItemCmd) runInfo(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	guid := c.Args().First()
	msg := strings.Join(c.Args().Tail(), " ")

	if err := cmd.app.Todos.SetInfo(ctx, guid, msg); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s info updated", guid)
	return nil
}

func (cmd *ItemCmd) runSet(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	guid := c.Args().First()

	fields := make(map[string]string, c.NArg()-1)
	for _, arg := range c.Args().Tail() {
		key, value, err := validate.ParseAssignment(arg)
		if err != nil {
			return err
		}
		fields[key] = value
	}

	if err := cmd.app.Todos.SetFields(ctx, guid, fields); err != nil {
		return err
	}

	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s updated", guid)
	return nil
}

func (cmd *ItemCmd) runRemove(ctx context.Context, c *cli.Command) error {
	guid, err := guidArg(c)
	if err != nil {
		return err
	}
	if err := cmd.app.Todos.Remove(ctx, guid); err != nil {
		return err
	}
	newPrinter(c.Root().Writer, cmd.app.Config).Successf("%s removed", guid)
	return nil
}

// guidArg returns the single positional GUID argument.
func guidArg(c *cli.Command) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("usage: %s", c.UsageText)
	}
	return c.Args().First(), nil
}
