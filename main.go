package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/convtodo/internal/commands"
	"github.com/colonyops/convtodo/internal/core/config"
	"github.com/colonyops/convtodo/internal/core/logging"
	"github.com/colonyops/convtodo/internal/core/styles"
	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/colonyops/convtodo/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		todoApp   = &tracker.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "convtodo",
		Usage:     "Track Unity to Godot asset conversion tasks",
		UsageText: "convtodo [global options] command [command options]",
		Description: `convtodo manages a YAML to-do list of asset conversion tasks, one per
Unity asset GUID. Each task records the asset kind, its Unity source path,
its Godot target path and a status with an explanatory message.

Run 'convtodo add' to record a task and 'convtodo ls' to review progress.`,
		Version:                   build(),
		EnableShellCompletion:     true,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CONVTODO_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (logs go to stderr when empty)",
				Sources:     cli.EnvVars("CONVTODO_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CONVTODO_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to the todo file (overrides todo_file from config)",
				Sources:     cli.EnvVars("CONVTODO_FILE"),
				Destination: &flags.TodoFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			todoPath, err := cfg.TodoPath(flags.TodoFile)
			if err != nil {
				return ctx, fmt.Errorf("resolve todo file: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*todoApp = *tracker.NewApp(cfg, todoPath, logging.Component("tracker"))

			log.Debug().Str("config", flags.ConfigPath).Str("todo_file", todoPath).Msg("convtodo initialized")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewLsCmd(flags, todoApp).Register(app)
	app = commands.NewShowCmd(flags, todoApp).Register(app)
	app = commands.NewAddCmd(flags, todoApp).Register(app)
	app = commands.NewImportCmd(flags, todoApp).Register(app)
	app = commands.NewItemCmd(flags, todoApp).Register(app)
	app = commands.NewExportCmd(flags, todoApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		st := styles.New(os.Stderr, styles.UseColor(colorMode(flags), os.Stderr))
		fmt.Fprintln(os.Stderr, st.Error.Render("error: ")+err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

func colorMode(flags *commands.Flags) string {
	if flags.Config != nil {
		return string(flags.Config.Color)
	}
	return string(config.ColorAuto)
}
