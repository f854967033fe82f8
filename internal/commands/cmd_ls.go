package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/colonyops/convtodo/internal/core/todo"
	"github.com/colonyops/convtodo/internal/tracker"
	"github.com/colonyops/convtodo/pkg/iojson"
	"github.com/colonyops/convtodo/pkg/tmpl"
	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	status     string
	search     string
	regex      bool
	fuzzy      bool
	pathGlob   string
	jsonOutput bool
	format     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *tracker.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	regexFlag := &cli.BoolFlag{
		Name:        "regex",
		Usage:       "treat --search as a regular expression",
		Destination: &cmd.regex,
	}
	fuzzyFlag := &cli.BoolFlag{
		Name:        "fuzzy",
		Usage:       "fuzzy match --search against guid, kind and paths",
		Destination: &cmd.fuzzy,
	}
	jsonFlag := &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON lines",
		Destination: &cmd.jsonOutput,
	}
	formatFlag := &cli.StringFlag{
		Name:        "format",
		Usage:       "render each task with a Go template",
		Destination: &cmd.format,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List conversion tasks",
		UsageText: "convtodo ls [--status <status>] [--search <text>] [--regex|--fuzzy] [--path <glob>] [--json|--format <template>]",
		Description: `Displays a table of conversion tasks with their kind, Godot path and status.
A per-status summary is printed to stderr.

Search is case-insensitive plain text by default (configurable via search.mode).
--path matches a doublestar glob against the Unity or Godot path.

--format renders each task with a Go template. Available fields are .GUID,
.Kind, .Status, .UnityPath, .GodotPath, .Instruction, .Reason, .Info and
.Fields (all fields as a map). Helpers: shq, join, upper, lower, default.

Examples:
  convtodo ls --status open
  convtodo ls --search water
  convtodo ls --search 'res://(shaders|scripts)/' --regex
  convtodo ls --path 'Assets/Prefabs/**' --json
  convtodo ls --status failed --format '{{.GUID}} {{.Info | default "-"}}'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (open, done, failed, all, or any text contained in the status)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"q"},
				Usage:       "search text",
				Destination: &cmd.search,
			},
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"p"},
				Usage:       "glob matched against unity_path or godot_path",
				Destination: &cmd.pathGlob,
			},
		},
		MutuallyExclusiveFlags: []cli.MutuallyExclusiveFlags{
			{Flags: [][]cli.Flag{{regexFlag}, {fuzzyFlag}}},
			{Flags: [][]cli.Flag{{jsonFlag}, {formatFlag}}},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) query() todo.Query {
	q := todo.Query{
		Text:     cmd.search,
		Status:   todo.StatusFilter(cmd.status),
		PathGlob: cmd.pathGlob,
	}

	if cmd.app.Config != nil {
		q.Mode = cmd.app.Config.Search.Mode
	}

	switch {
	case cmd.regex:
		q.Mode = todo.SearchRegex
	case cmd.fuzzy:
		q.Mode = todo.SearchFuzzy
	}

	return q
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.Todos.List(ctx, cmd.query())
	if err != nil {
		return fmt.Errorf("list todo items: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, newItemRecord(e.GUID, e.Item)); err != nil {
				return fmt.Errorf("encode todo item: %w", err)
			}
		}
		return nil
	}

	if cmd.format != "" {
		return cmd.renderFormat(out, entries)
	}

	p := newPrinter(c.Root().ErrWriter, cmd.app.Config)

	if len(entries) == 0 {
		p.Infof("No todo items found")
	} else if err := writeTable(out, newPrinter(out, cmd.app.Config), entries); err != nil {
		return err
	}

	summary, err := cmd.app.Todos.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summarize todo items: %w", err)
	}
	if line := formatSummary(summary); line != "" {
		p.Printf("%s", line)
	}

	return nil
}

func (cmd *LsCmd) renderFormat(out io.Writer, entries []todo.Entry) error {
	t, err := tmpl.Parse(cmd.format)
	if err != nil {
		return fmt.Errorf("--format: %w", err)
	}

	for _, e := range entries {
		line, err := t.Execute(newFormatRecord(e.GUID, e.Item))
		if err != nil {
			return fmt.Errorf("--format: %s: %w", e.GUID, err)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	return nil
}

// writeTable lays out plain cells with a tabwriter and styles the GUID and
// STATUS cells afterwards so escape sequences never count toward column widths.
func writeTable(out io.Writer, p *printer, entries []todo.Entry) error {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GUID\tKIND\tGODOT PATH\tSTATUS")

	for _, e := range entries {
		godot := e.Item.GodotPath
		if godot == "" {
			godot = "<no path>"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.GUID, e.Item.Kind, godot, e.Item.StatusOrDefault())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	p.Printf("%s", p.Header(lines[0]))

	for i, e := range entries {
		line := strings.TrimPrefix(lines[i+1], e.GUID)
		status := e.Item.StatusOrDefault()
		line = strings.TrimSuffix(line, status)
		p.Printf("%s%s%s", p.GUID(e.GUID), line, p.Status(status))
	}

	return nil
}

// formatSummary renders per-status counts with the well-known statuses first.
func formatSummary(summary map[string]int) string {
	total := 0
	for _, n := range summary {
		total += n
	}
	if total == 0 {
		return ""
	}

	order := []string{todo.StatusOpen, todo.StatusDone, todo.StatusFailed}
	for _, status := range slices.Sorted(maps.Keys(summary)) {
		if !slices.Contains(order, status) {
			order = append(order, status)
		}
	}

	parts := make([]string, 0, len(order))
	for _, status := range order {
		if n := summary[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}

	return fmt.Sprintf("%d item(s): %s", total, strings.Join(parts, ", "))
}

// itemRecord is the JSON output format for convtodo ls --json and show --json.
type itemRecord struct {
	GUID   string            `json:"guid"`
	Kind   string            `json:"kind"`
	Status string            `json:"status"`
	Fields map[string]string `json:"fields"`
}

func newItemRecord(guid string, item *todo.Item) itemRecord {
	return itemRecord{
		GUID:   guid,
		Kind:   string(item.Kind),
		Status: item.StatusOrDefault(),
		Fields: item.Fields(),
	}
}

// formatRecord is the data passed to ls --format templates.
type formatRecord struct {
	GUID        string
	Kind        string
	Status      string
	UnityPath   string
	GodotPath   string
	Instruction string
	Reason      string
	Info        string
	Fields      map[string]string
}

func newFormatRecord(guid string, item *todo.Item) formatRecord {
	return formatRecord{
		GUID:        guid,
		Kind:        string(item.Kind),
		Status:      item.StatusOrDefault(),
		UnityPath:   item.UnityPath,
		GodotPath:   item.GodotPath,
		Instruction: item.Instruction,
		Reason:      item.Reason,
		Info:        item.Info,
		Fields:      item.Fields(),
	}
}
