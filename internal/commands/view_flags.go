package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/planner"
)

// viewFlags are the board flags shared by board and watch.
type viewFlags struct {
	search string
	fuzzy  bool
	source string
	date   string
	all    bool
	json   bool
}

func (v *viewFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "only show todos whose text contains the phrase (overrides search.phrase)",
			Destination: &v.search,
		},
		&cli.BoolFlag{
			Name:        "fuzzy",
			Usage:       "match --search as a fuzzy pattern",
			Destination: &v.fuzzy,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "only show todos whose source matches the glob (e.g. 'notes/**/*.md')",
			Destination: &v.source,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "render the board as of this day (YYYY-MM-DD)",
			Destination: &v.date,
		},
		&cli.BoolFlag{
			Name:        "all",
			Aliases:     []string{"a"},
			Usage:       "show buckets that would be hidden when empty",
			Destination: &v.all,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output the board as JSON",
			Destination: &v.json,
		},
	}
}

// View builds the per-run board view. Search flags replace the persisted
// search only when one of them is given.
func (v *viewFlags) View(ctx context.Context, c *cli.Command, app *planner.App) (planner.View, error) {
	var view planner.View

	if c.IsSet("search") || c.IsSet("fuzzy") || c.IsSet("source") {
		eff, err := app.Settings.Effective(ctx)
		if err != nil {
			return view, err
		}
		search := eff.Search
		if c.IsSet("search") {
			search.Phrase = v.search
		}
		if c.IsSet("fuzzy") {
			search.Fuzzy = v.fuzzy
		}
		if c.IsSet("source") {
			search.SourceGlob = v.source
		}
		view.Search = &search
	}

	if v.date != "" {
		day, ok := daterange.Parse(v.date)
		if !ok {
			return view, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", v.date)
		}
		view.Now = day
	}

	return view, nil
}
