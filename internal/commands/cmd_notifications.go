package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/planboard/internal/planner"
	"github.com/colonyops/planboard/internal/printer"
	"github.com/colonyops/planboard/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags
	app   *planner.App

	limit      int
	jsonOutput bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags, app *planner.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notifications",
		Aliases:   []string{"notes"},
		Usage:     "Show reports about dropped and failed commands",
		UsageText: "planboard notifications [--limit <n>] [--json] | clear",
		Description: `Lists the newest notifications first. Commands that reference an unknown
todo or fail to persist are recorded here, as are config reloads and days
that go over the WIP limit.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete all notifications",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotificationsCmd) run(ctx context.Context, c *cli.Command) error {
	list, err := cmd.app.Notifications.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, n := range list {
			if err := iojson.WriteLine(out, n); err != nil {
				return err
			}
		}
		return nil
	}

	if len(list) == 0 {
		printer.Ctx(ctx).Infof("No notifications")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tTODO\tMESSAGE")
	for _, n := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			n.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			n.Level,
			n.TodoID,
			n.Message,
		)
	}
	return w.Flush()
}

func (cmd *NotificationsCmd) runClear(ctx context.Context, _ *cli.Command) error {
	n, err := cmd.app.Notifications.Count(ctx)
	if err != nil {
		return err
	}
	if err := cmd.app.Notifications.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	printer.Ctx(ctx).Successf("Cleared %d notification(s)", n)
	return nil
}
