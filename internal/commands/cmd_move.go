package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/styles"
	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/internal/planner"
	"github.com/colonyops/planboard/internal/printer"
	"github.com/colonyops/planboard/pkg/iojson"
)

// dispatchFlags are shared by the commands that write through the command
// engine.
type dispatchFlags struct {
	dryRun bool
	json   bool
}

func (d *dispatchFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Aliases:     []string{"n"},
			Usage:       "print the planned mutations without writing",
			Destination: &d.dryRun,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output the result as JSON",
			Destination: &d.json,
		},
	}
}

// dispatch runs cmd, or previews it with --dry-run, and reports the outcome.
func (d *dispatchFlags) dispatch(ctx context.Context, c *cli.Command, app *planner.App, cmd command.Command) error {
	out := c.Root().Writer
	p := printer.Ctx(ctx)

	if d.dryRun {
		pv, err := app.Commands.Preview(ctx, cmd)
		if err != nil {
			return err
		}
		if d.json {
			return iojson.WriteWith(out, os.Stderr, pv)
		}
		p.Infof("%s %s (dry run)", pv.Command, cmd.TodoID())
		for _, m := range pv.Mutations {
			p.Printf("  %s", m)
		}
		return nil
	}

	res, err := app.Commands.Dispatch(ctx, cmd)
	if err != nil {
		return err
	}
	if d.json {
		return iojson.WriteWith(out, os.Stderr, res)
	}

	muts := make([]string, len(res.Mutations))
	for i, m := range res.Mutations {
		muts[i] = m.String()
	}
	p.Successf("%s %s: %s", res.Command, res.TodoID, strings.Join(muts, ", "))
	return nil
}

type MoveCmd struct {
	flags *Flags
	app   *planner.App
	dispatchFlags

	date   string
	status string
}

// NewMoveCmd creates a new move command
func NewMoveCmd(flags *Flags, app *planner.App) *MoveCmd {
	return &MoveCmd{flags: flags, app: app}
}

// Register adds the move command to the application
func (cmd *MoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "move",
		Aliases:   []string{"mv"},
		Usage:     "Drop a todo into a bucket or onto a date",
		UsageText: "planboard move <id> <bucket-key>\n   planboard move <id> --date <day> [--status <status>]",
		Description: `Moves a todo the way dragging it on the board would. Bucket keys are shown
by 'planboard board', e.g. today.in-progress, backlog, day.2024-06-14,
week.1 or later.

Dropping onto the backlog clears the due date. Past and collapsed buckets
accept no drops.`,
		Flags: append(cmd.dispatchFlags.Flags(),
			&cli.StringFlag{
				Name:        "date",
				Usage:       "set the due date directly (YYYY-MM-DD)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "status to set together with --date",
				Destination: &cmd.status,
			},
		),
		ShellComplete: TodoIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: planboard move <id> <bucket-key>")
	}
	id := c.Args().Get(0)

	target, err := moveByDate(id, cmd.date, cmd.status)
	if err != nil {
		return err
	}

	if target == nil {
		if c.NArg() < 2 {
			return fmt.Errorf("usage: planboard move <id> <bucket-key>")
		}
		target, err = cmd.app.Commands.Resolve(ctx, id, c.Args().Get(1))
		if err != nil {
			return err
		}
	}

	return cmd.dispatch(ctx, c, cmd.app, target)
}

// moveByDate builds the move for --date and --status. It returns nil when no
// date was given, and rejects a status without a date since bucket drops
// decide the status themselves.
func moveByDate(id, date, status string) (command.Command, error) {
	if date == "" {
		if status != "" {
			return nil, fmt.Errorf("--status requires --date")
		}
		return nil, nil
	}

	day, ok := daterange.Parse(date)
	if !ok {
		return nil, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
	}
	mv := command.Move{ID: id, Date: day}
	if status != "" {
		s, err := todo.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("invalid status %q: %w", status, err)
		}
		mv.Status = s
	}
	return mv, nil
}

type ToggleCmd struct {
	flags *Flags
	app   *planner.App
	dispatchFlags
}

// NewToggleCmd creates a new toggle command
func NewToggleCmd(flags *Flags, app *planner.App) *ToggleCmd {
	return &ToggleCmd{flags: flags, app: app}
}

// Register adds the toggle command to the application
func (cmd *ToggleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "toggle",
		Aliases:       []string{"t"},
		Usage:         "Complete an open todo or reopen a done one",
		UsageText:     "planboard toggle <id> [--dry-run]",
		Flags:         cmd.dispatchFlags.Flags(),
		ShellComplete: TodoIDCompleter(cmd.app),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() < 1 {
				return fmt.Errorf("usage: planboard toggle <id>")
			}
			return cmd.dispatch(ctx, c, cmd.app, command.ToggleStatus{ID: c.Args().First()})
		},
	})

	return app
}

type StatusCmd struct {
	flags *Flags
	app   *planner.App
	dispatchFlags
}

// NewStatusCmd creates a new status command
func NewStatusCmd(flags *Flags, app *planner.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status and statuses commands to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "status",
			Usage:     "Set the status of a todo",
			UsageText: "planboard status <id> [<status>] [--dry-run]",
			Description: `Run 'planboard statuses' for the accepted values. Without a status a menu
of all six is shown, starting on the current one.`,
			Flags:         cmd.dispatchFlags.Flags(),
			ShellComplete: TodoIDCompleter(cmd.app),
			Action:        cmd.run,
		},
		&cli.Command{
			Name:   "statuses",
			Usage:  "List the statuses a todo can have",
			Action: cmd.runList,
		},
	)

	return app
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: planboard status <id> [<status>]")
	}
	id := c.Args().First()

	if c.NArg() < 2 {
		s, err := cmd.pick(ctx, id)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		return cmd.dispatch(ctx, c, cmd.app, command.SetStatus{ID: id, Status: s})
	}

	s, err := todo.ParseStatus(strings.Join(c.Args().Slice()[1:], " "))
	if err != nil {
		return fmt.Errorf("invalid status %q: %w", c.Args().Get(1), err)
	}

	return cmd.dispatch(ctx, c, cmd.app, command.SetStatus{ID: id, Status: s})
}

// pick asks for a status with the current one preselected.
func (cmd *StatusCmd) pick(ctx context.Context, id string) (todo.Status, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("usage: planboard status <id> <status>")
	}

	item, err := cmd.app.Todos.Get(ctx, id)
	if err != nil {
		return "", err
	}

	selected := item.Status
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[todo.Status]().
				Title("Status").
				Description(item.Text).
				Options(statusOptions(id)...).
				Value(&selected),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}

// statusOptions lists the status menu as select options.
func statusOptions(id string) []huh.Option[todo.Status] {
	menu := command.StatusMenu(id)
	out := make([]huh.Option[todo.Status], len(menu))
	for i, s := range menu {
		out[i] = huh.NewOption(s.Status.Icon()+" "+s.Status.Label(), s.Status)
	}
	return out
}

func (cmd *StatusCmd) runList(_ context.Context, c *cli.Command) error {
	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tICON\tLABEL\tDONE")
	for _, s := range command.StatusMenu("") {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", s.Status, s.Status.Icon(), s.Status.Label(), s.Status.IsDone())
	}
	return w.Flush()
}
