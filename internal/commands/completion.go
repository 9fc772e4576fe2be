package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/planner"
)

// timeNow is the clock used for attributes stamped by the CLI itself.
var timeNow = time.Now

// TodoIDCompleter returns a ShellCompleteFunc that suggests open todo ids
// as positional completions. Set this as the ShellComplete field on any
// cli.Command that accepts todo ids as arguments.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TodoIDCompleter(app *planner.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if completingFlag(cmd) {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}

		if app.Todos == nil {
			return
		}

		// The second argument of move is a bucket key.
		if cmd.Name == "move" && cmd.Args().Len() == 1 {
			completeBucketKeys(ctx, cmd, app)
			return
		}

		items, err := app.Todos.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, item := range items {
			if item.Status.IsDone() {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s:%s\n", item.ID, item.Text)
		}
	}
}

func completeBucketKeys(ctx context.Context, cmd *cli.Command, app *planner.App) {
	b, err := app.Board.Build(ctx, planner.View{Search: &config.Search{}})
	if err != nil {
		return
	}

	w := cmd.Root().Writer
	for _, bucket := range b.All() {
		if bucket.Drop == nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:%s\n", bucket.Key, bucket.Title)
	}
}

func settingKeyCompleter(ctx context.Context, cmd *cli.Command) {
	if completingFlag(cmd) {
		cli.DefaultCompleteWithFlags(ctx, cmd)
		return
	}
	if cmd.Args().Len() > 0 {
		return
	}

	w := cmd.Root().Writer
	for _, key := range config.SettingKeys() {
		_, _ = fmt.Fprintln(w, key)
	}
}

func completingFlag(cmd *cli.Command) bool {
	args := cmd.Args()
	if !args.Present() {
		return false
	}
	last := args.Slice()[args.Len()-1]
	return len(last) > 0 && last[0] == '-'
}
