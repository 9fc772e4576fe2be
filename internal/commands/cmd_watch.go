package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/logging"
	"github.com/colonyops/planboard/internal/planner"
	"github.com/colonyops/planboard/internal/tui"
	"github.com/colonyops/planboard/pkg/iojson"
	"github.com/colonyops/planboard/pkg/utils"
)

type WatchCmd struct {
	flags *Flags
	app   *planner.App
	view  viewFlags

	tick time.Duration
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *planner.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Aliases:   []string{"w"},
		Usage:     "Show the board and redraw it whenever it changes",
		UsageText: "planboard watch [board options] [--tick <duration>]",
		Description: `Keeps the board on screen. It is redrawn when todos are written by any
planboard process, when settings change, when the config file is edited,
and on every tick so the board rolls over at midnight.

On a terminal the board is shown full screen: scroll with the arrow keys,
press r to refresh and q to quit. With --json, or when the output is not a
terminal, one frame is written per change instead.`,
		Flags: append(cmd.view.Flags(),
			&cli.DurationFlag{
				Name:        "tick",
				Usage:       "interval between unconditional redraws",
				Value:       time.Minute,
				Destination: &cmd.tick,
			},
		),
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	view, err := cmd.view.View(ctx, c, cmd.app)
	if err != nil {
		return err
	}

	logger := logging.Component("watch")
	watchers := cmd.watchers(logger)

	if !cmd.view.json && term.IsTerminal(int(os.Stdout.Fd())) {
		return cmd.runInteractive(ctx, view, watchers)
	}
	return cmd.runStream(ctx, c, view, watchers, logger)
}

// runInteractive shows the board in a full screen program fed by
// board.updated events.
func (cmd *WatchCmd) runInteractive(ctx context.Context, view planner.View, watchers []*planner.Watcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewBoardModel(tui.BoardOpts{
		Render:  func(b board.Board) (string, error) { return cmd.render(ctx, b) },
		Refresh: cmd.app.Board.Invalidate,
		Tick:    cmd.tick,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	cmd.app.Bus.SubscribeBoardUpdated(func(payload eventbus.BoardUpdatedPayload) {
		b, err := cmd.snapshot(ctx, view, payload)
		if err != nil {
			p.Send(tui.BoardErrMsg{Err: err})
			return
		}
		p.Send(tui.BoardUpdatedMsg{Board: b})
	})

	runErr := make(chan error, 1)
	go func() { runErr <- cmd.app.Run(ctx, watchers...) }()
	cmd.app.Board.Invalidate()

	_, err := p.Run()
	cancel()
	appErr := <-runErr

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run watch view: %w", err)
	}
	return appErr
}

// runStream writes a new frame each time the board changes. Used for --json
// and when stdout is not a terminal.
func (cmd *WatchCmd) runStream(ctx context.Context, c *cli.Command, view planner.View, watchers []*planner.Watcher, logger zerolog.Logger) error {
	updates := make(chan eventbus.BoardUpdatedPayload, 1)
	cmd.app.Bus.SubscribeBoardUpdated(func(p eventbus.BoardUpdatedPayload) {
		select {
		case updates <- p:
		default:
			// a newer board replaces one the loop has not drawn yet
			select {
			case <-updates:
			default:
			}
			updates <- p
		}
	})

	runErr := make(chan error, 1)
	go func() { runErr <- cmd.app.Run(ctx, watchers...) }()

	frame := &utils.FrameWriter{}
	out := c.Root().Writer

	ticker := time.NewTicker(cmd.tick)
	defer ticker.Stop()

	cmd.app.Board.Invalidate()

	for {
		select {
		case <-ctx.Done():
			return <-runErr
		case <-ticker.C:
			cmd.app.Board.Invalidate()
		case payload := <-updates:
			if err := cmd.draw(ctx, view, payload, frame); err != nil {
				logger.Error().Err(err).Msg("redraw failed")
				continue
			}
			if _, err := frame.Flush(out); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}

func (cmd *WatchCmd) watchers(logger zerolog.Logger) []*planner.Watcher {
	var out []*planner.Watcher

	data, err := planner.NewDataWatcher(cmd.app.Config.DataDir, cmd.app.Bus, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("not watching the database for external writes")
	} else {
		out = append(out, data)
	}

	if cmd.flags.ConfigPath != "" {
		if _, err := os.Stat(cmd.flags.ConfigPath); err == nil {
			w, err := planner.NewConfigWatcher(cmd.flags.ConfigPath, cmd.app.Config.DataDir, cmd.app.Bus, logger)
			if err != nil {
				logger.Warn().Err(err).Msg("not watching the config file")
			} else {
				out = append(out, w)
			}
		}
	}

	return out
}

// snapshot returns the board to show for view. The default view reuses the
// published board, anything else is rebuilt.
func (cmd *WatchCmd) snapshot(ctx context.Context, view planner.View, payload eventbus.BoardUpdatedPayload) (board.Board, error) {
	if view.Search == nil && view.Now.IsZero() {
		return payload.Board, nil
	}
	return cmd.app.Board.Build(ctx, view)
}

func (cmd *WatchCmd) render(ctx context.Context, b board.Board) (string, error) {
	eff, err := cmd.app.Settings.Effective(ctx)
	if err != nil {
		return "", err
	}
	r, err := newBoardRenderer(cmd.app.Config, eff.Attributes, cmd.view.all)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := r.Render(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cmd *WatchCmd) draw(ctx context.Context, view planner.View, payload eventbus.BoardUpdatedPayload, frame io.Writer) error {
	b, err := cmd.snapshot(ctx, view, payload)
	if err != nil {
		return err
	}

	if cmd.view.json {
		return iojson.WriteLine(frame, b)
	}

	text, err := cmd.render(ctx, b)
	if err != nil {
		return err
	}
	_, err = io.WriteString(frame, text)
	return err
}
