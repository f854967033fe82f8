package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/convtodo/internal/core/todo"
	"github.com/colonyops/convtodo/internal/core/validate"
	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/colonyops/convtodo/pkg/randid"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type AddCmd struct {
	flags *Flags
	app   *tracker.App

	// Command-specific flags
	kind        string
	unityPath   string
	godotPath   string
	instruction string
	set         []string
	force       bool
	genGUID     bool

	// isTerminal reports whether the form can be shown. Replaced in tests.
	isTerminal func() bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *tracker.App) *AddCmd {
	return &AddCmd{
		flags: flags,
		app:   app,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a conversion task",
		UsageText: "convtodo add <guid>|--gen-guid --kind <kind> --unity <path> --godot <path> [--instruction <text>] [--set key=value]... [--force]",
		Description: `Adds a task to the todo file, creating the file if needed.

Shader and Material tasks require --instruction. Extra fields can be
attached with --set. An existing GUID is rejected unless --force is given,
in which case the task is replaced. --gen-guid generates a random
Unity-style GUID instead of taking one as an argument.

When run on a terminal without flags, an interactive form prompts for input.

Examples:
  convtodo add 3f9a --kind Shader --unity Assets/Shaders/Toon.shader \
    --godot res://shaders/toon.gdshader --instruction "keep rim light"
  convtodo add 77bc --kind Prefab --unity Assets/Door.prefab --godot res://door.tscn --set owner=ana`,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "asset kind (" + kindList() + ")",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "unity",
				Aliases:     []string{"u"},
				Usage:       "Unity source path",
				Destination: &cmd.unityPath,
			},
			&cli.StringFlag{
				Name:        "godot",
				Aliases:     []string{"g"},
				Usage:       "Godot target path",
				Destination: &cmd.godotPath,
			},
			&cli.StringFlag{
				Name:        "instruction",
				Usage:       "conversion instruction (required for Shader and Material)",
				Destination: &cmd.instruction,
			},
			&cli.StringSliceFlag{
				Name:        "set",
				Usage:       "extra field as key=value (repeatable)",
				Destination: &cmd.set,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "replace an existing task with the same GUID",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "gen-guid",
				Usage:       "generate a random 32 character hex GUID",
				Destination: &cmd.genGUID,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	guid := c.Args().First()
	if c.NArg() > 1 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	if cmd.genGUID {
		if guid != "" {
			return errors.New("--gen-guid cannot be combined with a guid argument")
		}
		guid = randid.GUID()
	}

	if cmd.noFieldFlags() && cmd.isTerminal() {
		if err := cmd.runForm(&guid); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if guid == "" {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	if cmd.kind == "" {
		return fmt.Errorf("--kind is required (%s)", kindList())
	}

	fields, err := cmd.fields()
	if err != nil {
		return err
	}

	item, err := cmd.app.Todos.Create(ctx, guid, cmd.kind, fields, cmd.force)
	if err != nil {
		return err
	}

	newPrinter(c.Root().Writer, cmd.app.Config).Successf("Added %s: %s", guid, item)
	return nil
}

func (cmd *AddCmd) noFieldFlags() bool {
	return cmd.kind == "" && cmd.unityPath == "" && cmd.godotPath == "" &&
		cmd.instruction == "" && len(cmd.set) == 0
}

// fields collects the flag values into the item field map. Empty path and
// instruction flags are left out so required-field errors name them.
func (cmd *AddCmd) fields() (map[string]string, error) {
	fields := make(map[string]string, len(cmd.set)+3)

	for _, s := range cmd.set {
		key, value, err := validate.ParseAssignment(s)
		if err != nil {
			return nil, fmt.Errorf("--set: %w", err)
		}
		fields[key] = value
	}

	if cmd.unityPath != "" {
		fields[todo.FieldUnityPath] = cmd.unityPath
	}
	if cmd.godotPath != "" {
		fields[todo.FieldGodotPath] = cmd.godotPath
	}
	if cmd.instruction != "" {
		fields[todo.FieldInstruction] = cmd.instruction
	}

	return fields, nil
}

func (cmd *AddCmd) runForm(guid *string) error {
	kindOpts := make([]huh.Option[string], 0, len(todo.Kinds()))
	for _, k := range todo.Kinds() {
		kindOpts = append(kindOpts, huh.NewOption(string(k), string(k)))
	}

	required := func(label string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GUID").
				Description("Unity asset GUID").
				Validate(validate.GUID).
				Value(guid),
			huh.NewSelect[string]().
				Title("Kind").
				Options(kindOpts...).
				Value(&cmd.kind),
			huh.NewInput().
				Title("Unity path").
				Placeholder("Assets/...").
				Validate(required("unity path")).
				Value(&cmd.unityPath),
			huh.NewInput().
				Title("Godot path").
				Placeholder("res://...").
				Validate(required("godot path")).
				Value(&cmd.godotPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Instruction").
				Description("How the asset should be converted").
				Validate(required("instruction")).
				Value(&cmd.instruction),
		).WithHideFunc(func() bool {
			return !slices.Contains(todo.Kind(cmd.kind).RequiredFields(), todo.FieldInstruction)
		}),
	).WithTheme(huh.ThemeCharm()).Run()
}

func kindList() string {
	kinds := todo.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
