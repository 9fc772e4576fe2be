package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/internal/planner"
	"github.com/colonyops/planboard/internal/printer"
	"github.com/colonyops/planboard/pkg/iojson"
)

// TodoCmd implements the planboard todo command group.
type TodoCmd struct {
	flags *Flags
	app   *planner.App

	// add flags
	addDue    string
	addStatus string
	addSource string
	addAttrs  []string
	addSelect bool

	// list flags
	listStatus string

	importReader iojson.FileReader[importItem]
}

// importItem is one record accepted by `planboard todo import`.
type importItem struct {
	Text       string            `json:"text"`
	Status     string            `json:"status"`
	Source     string            `json:"source"`
	Attributes map[string]string `json:"attributes"`
}

// NewTodoCmd creates a new todo command.
func NewTodoCmd(flags *Flags, app *planner.App) *TodoCmd {
	return &TodoCmd{flags: flags, app: app}
}

// Register adds the todo command to the application.
func (cmd *TodoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "todo",
		Usage: "Manage todo items",
		Description: `Todo commands for creating, inspecting and removing items.

Examples:
  planboard todo add "Write report" --due 2024-06-14
  planboard todo list --status in-progress
  planboard todo get <id>
  planboard todo rm <id>
  planboard todo import -f todos.json`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
			cmd.getCmd(),
			cmd.rmCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *TodoCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a todo",
		UsageText: "planboard todo add <text> [--due <day>] [--status <status>] [--attr name=value]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.addDue,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "initial status",
				Value:       string(todo.StatusTodo),
				Destination: &cmd.addStatus,
			},
			&cli.StringFlag{
				Name:        "source",
				Usage:       "document the todo belongs to",
				Destination: &cmd.addSource,
			},
			&cli.StringSliceFlag{
				Name:        "attr",
				Usage:       "extra attribute as name=value (repeatable)",
				Destination: &cmd.addAttrs,
			},
			&cli.BoolFlag{
				Name:        "select",
				Usage:       "mark the todo as selected so it shows in today",
				Destination: &cmd.addSelect,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TodoCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List todos as JSON lines",
		UsageText: "planboard todo list [--status <status>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only list todos with this status",
				Destination: &cmd.listStatus,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TodoCmd) getCmd() *cli.Command {
	return &cli.Command{
		Name:          "get",
		Usage:         "Show a todo as JSON",
		UsageText:     "planboard todo get <id>",
		ShellComplete: TodoIDCompleter(cmd.app),
		Action:        cmd.runGet,
	}
}

func (cmd *TodoCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:          "rm",
		Aliases:       []string{"delete"},
		Usage:         "Delete todos",
		UsageText:     "planboard todo rm <id> [<id>...]",
		ShellComplete: TodoIDCompleter(cmd.app),
		Action:        cmd.runRm,
	}
}

func (cmd *TodoCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create todos from JSON",
		UsageText: "planboard todo import [-f <file>]",
		Description: `Reads a JSON array of todos, or one JSON object per line as written by
'planboard todo list'. Each record has text, and optionally status, source
and attributes. IDs in the input are ignored.`,
		Flags:  []cli.Flag{cmd.importReader.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *TodoCmd) runAdd(ctx context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("usage: planboard todo add <text>")
	}

	status, err := todo.ParseStatus(cmd.addStatus)
	if err != nil {
		return fmt.Errorf("invalid status %q: %w", cmd.addStatus, err)
	}

	eff, err := cmd.app.Settings.Effective(ctx)
	if err != nil {
		return err
	}

	attrs, err := parseAttrs(cmd.addAttrs)
	if err != nil {
		return err
	}
	if cmd.addDue != "" {
		day, ok := daterange.Parse(cmd.addDue)
		if !ok {
			return fmt.Errorf("invalid --due %q, expected YYYY-MM-DD", cmd.addDue)
		}
		attrs[eff.Attributes.Due] = daterange.Format(day)
	}
	if cmd.addSelect {
		attrs[eff.Attributes.Selected] = "true"
	}

	item := &todo.Item{Text: text, Source: cmd.addSource, Attributes: attrs}
	item.SetStatus(status, eff.Attributes.Completed, timeNow())

	if err := cmd.app.Todos.Create(ctx, item); err != nil {
		return err
	}

	printer.Ctx(ctx).Success("Todo created", item.ID)
	_, _ = fmt.Fprintln(c.Root().Writer, item.ID)
	return nil
}

func (cmd *TodoCmd) runList(ctx context.Context, c *cli.Command) error {
	var want todo.Status
	if cmd.listStatus != "" {
		s, err := todo.ParseStatus(cmd.listStatus)
		if err != nil {
			return fmt.Errorf("invalid status %q: %w", cmd.listStatus, err)
		}
		want = s
	}

	items, err := cmd.app.Todos.List(ctx)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}

	for _, item := range items {
		if want != "" && item.Status != want {
			continue
		}
		if err := iojson.WriteLine(c.Root().Writer, item); err != nil {
			return err
		}
	}

	return nil
}

func (cmd *TodoCmd) runGet(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: planboard todo get <id>")
	}

	item, err := cmd.app.Todos.Get(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("get todo: %w", err)
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, item)
}

func (cmd *TodoCmd) runRm(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: planboard todo rm <id> [<id>...]")
	}

	p := printer.Ctx(ctx)
	for _, id := range c.Args().Slice() {
		if err := cmd.app.Todos.Delete(ctx, id); err != nil {
			return err
		}
		p.Successf("Deleted %s", id)
	}
	return nil
}

func (cmd *TodoCmd) runImport(ctx context.Context, c *cli.Command) error {
	records, err := cmd.importReader.ReadAll()
	if err != nil {
		return err
	}

	eff, err := cmd.app.Settings.Effective(ctx)
	if err != nil {
		return err
	}

	now := timeNow()
	for i, rec := range records {
		status := todo.StatusTodo
		if rec.Status != "" {
			if status, err = todo.ParseStatus(rec.Status); err != nil {
				return fmt.Errorf("record %d: invalid status %q: %w", i+1, rec.Status, err)
			}
		}

		item := &todo.Item{Text: rec.Text, Source: rec.Source, Attributes: rec.Attributes}
		if item.Attributes == nil {
			item.Attributes = map[string]string{}
		}
		item.SetStatus(status, eff.Attributes.Completed, now)

		if err := cmd.app.Todos.Create(ctx, item); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	printer.Ctx(ctx).Successf("Imported %d todo(s)", len(records))
	return nil
}

// parseAttrs turns name=value pairs into a map.
func parseAttrs(pairs []string) (map[string]string, error) {
	attrs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected name=value", p)
		}
		attrs[name] = strings.TrimSpace(value)
	}
	return attrs, nil
}
