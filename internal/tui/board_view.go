// Package tui holds the interactive terminal views.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/styles"
)

// footerHeight is the number of lines below the viewport.
const footerHeight = 1

// BoardUpdatedMsg carries a freshly built board into the program.
type BoardUpdatedMsg struct {
	Board board.Board
}

// BoardErrMsg reports a failed rebuild. The last good board stays on screen.
type BoardErrMsg struct {
	Err error
}

type tickMsg time.Time

// RenderFunc turns a board into the text shown in the view.
type RenderFunc func(board.Board) (string, error)

// BoardOpts configures a BoardModel.
type BoardOpts struct {
	Render  RenderFunc
	Refresh func()        // requests a rebuild; called on every tick and on the refresh key
	Tick    time.Duration // zero disables ticking
	Now     func() time.Time
}

type boardKeys struct {
	Quit    key.Binding
	Refresh key.Binding
}

func defaultBoardKeys() boardKeys {
	return boardKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// BoardModel shows the latest board in a scrollable viewport and swaps it
// out whenever a BoardUpdatedMsg arrives.
type BoardModel struct {
	opts     BoardOpts
	keys     boardKeys
	viewport viewport.Model
	ready    bool

	content string
	loaded  bool
	updated time.Time
	err     error
}

// NewBoardModel creates a BoardModel.
func NewBoardModel(opts BoardOpts) BoardModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Refresh == nil {
		opts.Refresh = func() {}
	}
	return BoardModel{opts: opts, keys: defaultBoardKeys()}
}

func (m BoardModel) Init() tea.Cmd {
	return m.tick()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.content)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.opts.Refresh()
			return m, nil
		}

	case BoardUpdatedMsg:
		content, err := m.opts.Render(msg.Board)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.content = content
		m.loaded = true
		m.updated = m.opts.Now()
		m.err = nil
		if m.ready {
			m.viewport.SetContent(m.content)
		}
		return m, nil

	case BoardErrMsg:
		m.err = msg.Err
		return m, nil

	case tickMsg:
		m.opts.Refresh()
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m BoardModel) View() string {
	if !m.ready {
		return "Loading board..."
	}
	return m.viewport.View() + "\n" + m.footer()
}

func (m BoardModel) footer() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("✘ " + m.err.Error())
	}
	if !m.loaded {
		return styles.MutedStyle.Render("waiting for the first board")
	}
	return styles.MutedStyle.Render("updated " + m.updated.Format("15:04:05") +
		"  " + m.keys.Refresh.Help().Key + " " + m.keys.Refresh.Help().Desc +
		"  " + m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc)
}

func (m BoardModel) tick() tea.Cmd {
	if m.opts.Tick <= 0 {
		return nil
	}
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
