package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/todo"
)

func renderBoard(t *testing.T, cfg config.Config, showHidden bool) string {
	t.Helper()

	now := time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)
	settings := config.DefaultSettings()
	items := []todo.Item{
		{ID: "a1", Text: "write report", Status: todo.StatusTodo, Attributes: map[string]string{"due": "2024-06-12"}},
		{ID: "b2", Text: "file taxes", Status: todo.StatusTodo, Source: "home.md"},
		{ID: "c3", Text: "ship release", Status: todo.StatusComplete, Attributes: map[string]string{"due": "2024-06-12"}},
	}

	r, err := newBoardRenderer(&cfg, settings.Attributes, showHidden)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, board.Generate(items, settings, now)))
	return buf.String()
}

func TestBoardRenderer_Render(t *testing.T) {
	out := renderBoard(t, config.DefaultConfig(), false)

	assert.Contains(t, out, "Wednesday, 2024-06-12")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, board.KeyTodayTodo)
	assert.Contains(t, out, board.KeyBacklog)
	assert.Contains(t, out, "[ ] a1 write report due 2024-06-12")
	assert.Contains(t, out, "b2 file taxes home.md")
	assert.Contains(t, out, "c3 ship release")

	// Past is empty and hidden.
	assert.NotContains(t, out, board.KeyPast)
}

func TestBoardRenderer_ShowHidden(t *testing.T) {
	out := renderBoard(t, config.DefaultConfig(), true)
	assert.Contains(t, out, board.KeyPast)
}

func TestBoardRenderer_TodoFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.TodoFormat = `{{ .ID }}|{{ upper .Text }}|{{ default "-" .Due }}`

	out := renderBoard(t, cfg, false)

	assert.Contains(t, out, "a1|WRITE REPORT|2024-06-12")
	assert.Contains(t, out, "b2|FILE TAXES|-")
}

func TestNewBoardRenderer_InvalidFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.TodoFormat = "{{ .ID "

	_, err := newBoardRenderer(&cfg, config.DefaultSettings().Attributes, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.todo_format")
}

func TestParseAttrs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: map[string]string{}},
		{name: "pairs", pairs: []string{"due=2024-06-12", " tag = work "}, want: map[string]string{"due": "2024-06-12", "tag": "work"}},
		{name: "empty value", pairs: []string{"selected="}, want: map[string]string{"selected": ""}},
		{name: "missing equals", pairs: []string{"due"}, wantErr: true},
		{name: "missing name", pairs: []string{"=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttrs(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
