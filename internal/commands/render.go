package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/styles"
	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/pkg/tmpl"
)

const dividerWidth = 48

// todoLine is the data handed to display.todo_format.
type todoLine struct {
	ID         string
	Text       string
	Status     string
	StatusIcon string
	Due        string
	Source     string
	Attributes map[string]string
}

// boardRenderer draws a board as styled text.
type boardRenderer struct {
	attrs      config.Attributes
	nerdFonts  bool
	showHidden bool
	format     *tmpl.Template
}

func newBoardRenderer(cfg *config.Config, attrs config.Attributes, showHidden bool) (*boardRenderer, error) {
	r := &boardRenderer{
		attrs:      attrs,
		nerdFonts:  cfg.Display.NerdFonts,
		showHidden: showHidden,
	}
	if cfg.Display.TodoFormat != "" {
		t, err := tmpl.Parse("todo_format", cfg.Display.TodoFormat)
		if err != nil {
			return nil, fmt.Errorf("display.todo_format: %w", err)
		}
		r.format = t
	}
	return r, nil
}

func (r *boardRenderer) Render(w io.Writer, b board.Board) error {
	var sb strings.Builder

	sb.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%s, %s", b.Date.Weekday(), daterange.Format(b.Date))))
	sb.WriteString("\n")

	today := "Today"
	if b.TodayStyle == board.StyleTodayExceeded {
		today += " " + styles.BucketExceededStyle.Render("(over WIP limit)")
	}
	r.divider(&sb, today)
	for _, bucket := range b.Today {
		if err := r.bucket(&sb, bucket); err != nil {
			return err
		}
	}

	r.divider(&sb, "Plan")
	for _, bucket := range b.Columns {
		if err := r.bucket(&sb, bucket); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *boardRenderer) divider(sb *strings.Builder, title string) {
	rule := dividerWidth - lipgloss.Width(title) - 4
	if rule < 2 {
		rule = 2
	}
	sb.WriteString(styles.DividerStyle.Render("── "))
	sb.WriteString(title)
	sb.WriteString(" ")
	sb.WriteString(styles.DividerStyle.Render(strings.Repeat("─", rule)))
	sb.WriteString("\n")
}

func (r *boardRenderer) bucket(sb *strings.Builder, b board.Bucket) error {
	if b.Hidden() && !r.showHidden {
		return nil
	}

	title := styles.BucketTitleStyle
	if b.Style == board.StyleExceeded {
		title = styles.BucketExceededStyle
	}

	fmt.Fprintf(sb, " %s %s %s %s\n",
		styles.Icon(b.Icon, r.nerdFonts),
		title.Render(b.Title),
		styles.BucketCountStyle.Render(fmt.Sprintf("(%d)", len(b.Todos))),
		styles.MutedStyle.Render(b.Key),
	)

	for _, item := range b.Todos {
		line, err := r.todo(item)
		if err != nil {
			return err
		}
		sb.WriteString("   ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return nil
}

func (r *boardRenderer) todo(item todo.Item) (string, error) {
	due, _ := item.Attribute(r.attrs.Due)

	if r.format != nil {
		out, err := r.format.Render(todoLine{
			ID:         item.ID,
			Text:       item.Text,
			Status:     string(item.Status),
			StatusIcon: item.Status.Icon(),
			Due:        due,
			Source:     item.Source,
			Attributes: item.Attributes,
		})
		if err != nil {
			return "", fmt.Errorf("render todo %s: %w", item.ID, err)
		}
		return out, nil
	}

	text := styles.TodoTextStyle.Render(item.Text)
	if item.Status.IsDone() {
		text = styles.TodoDoneStyle.Render(item.Text)
	}

	parts := []string{item.Status.Icon(), styles.TodoIDStyle.Render(item.ID), text}
	if due != "" {
		parts = append(parts, styles.AttrStyle.Render("due "+due))
	}
	if item.Source != "" {
		parts = append(parts, styles.MutedStyle.Render(item.Source))
	}
	return strings.Join(parts, " "), nil
}
