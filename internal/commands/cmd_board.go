package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/planboard/internal/planner"
	"github.com/colonyops/planboard/pkg/iojson"
)

type BoardCmd struct {
	flags *Flags
	app   *planner.App
	view  viewFlags
}

// NewBoardCmd creates a new board command
func NewBoardCmd(flags *Flags, app *planner.App) *BoardCmd {
	return &BoardCmd{flags: flags, app: app}
}

// Register adds the board command to the application
func (cmd *BoardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "board",
		Aliases:   []string{"b"},
		Usage:     "Show the planning board",
		UsageText: "planboard board [--search <phrase>] [--source <glob>] [--date <day>] [--json]",
		Description: `Buckets every todo into the today group (todo, in progress, done)
followed by backlog, past, the next six days, four weeks, three months and later.

Each bucket prints its key. Pass the key to 'planboard move' to drop a todo
into that bucket.

Examples:
  planboard board
  planboard board --search report --fuzzy
  planboard board --source 'work/**' --all
  planboard board --date 2024-06-12 --json`,
		Flags:  cmd.view.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Flags returns the board view flags so the root command can show the board
// without a subcommand. They are local so subcommands keep their own
// --json and --all.
func (cmd *BoardCmd) Flags() []cli.Flag {
	flags := cmd.view.Flags()
	for _, f := range flags {
		switch f := f.(type) {
		case *cli.StringFlag:
			f.Local = true
		case *cli.BoolFlag:
			f.Local = true
		}
	}
	return flags
}

// Run prints the board for the view described by the flags.
func (cmd *BoardCmd) Run(ctx context.Context, c *cli.Command) error {
	view, err := cmd.view.View(ctx, c, cmd.app)
	if err != nil {
		return err
	}

	b, err := cmd.app.Board.Build(ctx, view)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}

	out := c.Root().Writer
	if cmd.view.json {
		return iojson.WriteWith(out, os.Stderr, b)
	}

	eff, err := cmd.app.Settings.Effective(ctx)
	if err != nil {
		return err
	}

	r, err := newBoardRenderer(cmd.app.Config, eff.Attributes, cmd.view.all)
	if err != nil {
		return err
	}
	return r.Render(out, b)
}
