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

// SettingsCmd implements the planboard settings command group.
type SettingsCmd struct {
	flags *Flags
	app   *planner.App

	jsonOutput bool
	resetAll   bool
}

// NewSettingsCmd creates a new settings command.
func NewSettingsCmd(flags *Flags, app *planner.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: app}
}

// Register adds the settings command to the application.
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "settings",
		Usage: "Read and change planning settings",
		Description: `Settings start from the planning block of the config file. Values set
here are stored in the database and take precedence until reset.

Examples:
  planboard settings list
  planboard settings set wip_limit.enabled true
  planboard settings get search.phrase
  planboard settings reset wip_limit.enabled
  planboard settings reset --all`,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List every setting with its effective value",
				UsageText: "planboard settings list [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:          "get",
				Usage:         "Print the effective value of a setting",
				UsageText:     "planboard settings get <key>",
				ShellComplete: settingKeyCompleter,
				Action:        cmd.runGet,
			},
			{
				Name:          "set",
				Usage:         "Persist a setting override",
				UsageText:     "planboard settings set <key> <value>",
				ShellComplete: settingKeyCompleter,
				Action:        cmd.runSet,
			},
			{
				Name:      "reset",
				Usage:     "Drop a setting override",
				UsageText: "planboard settings reset <key> | --all",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "all",
						Usage:       "drop every override",
						Destination: &cmd.resetAll,
					},
				},
				ShellComplete: settingKeyCompleter,
				Action:        cmd.runReset,
			},
		},
	})

	return app
}

func (cmd *SettingsCmd) runList(ctx context.Context, c *cli.Command) error {
	values, err := cmd.app.Settings.List(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, v := range values {
			if err := iojson.WriteLine(out, v); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, v := range values {
		source := "config"
		if v.Overridden {
			source = "override"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", v.Key, v.Value, source)
	}
	return w.Flush()
}

func (cmd *SettingsCmd) runGet(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: planboard settings get <key>")
	}

	v, err := cmd.app.Settings.Get(ctx, c.Args().First())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, v)
	return nil
}

func (cmd *SettingsCmd) runSet(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: planboard settings set <key> <value>")
	}

	key := c.Args().Get(0)
	eff, err := cmd.app.Settings.Set(ctx, key, c.Args().Get(1))
	if err != nil {
		return err
	}

	v, _ := eff.Get(key)
	printer.Ctx(ctx).Successf("%s = %s", key, v)
	return nil
}

func (cmd *SettingsCmd) runReset(ctx context.Context, c *cli.Command) error {
	var key string
	switch {
	case cmd.resetAll && c.NArg() == 0:
	case !cmd.resetAll && c.NArg() == 1:
		key = c.Args().First()
	default:
		return fmt.Errorf("usage: planboard settings reset <key> | --all")
	}

	if _, err := cmd.app.Settings.Reset(ctx, key); err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	if key == "" {
		p.Successf("All settings reset")
	} else {
		p.Successf("%s reset", key)
	}
	return nil
}
