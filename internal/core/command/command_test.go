package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/todo"
)

var now = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMove_Plan(t *testing.T) {
	tracking := config.DefaultSettings()
	tracking.TrackStartTime = true

	tests := []struct {
		name     string
		cmd      Move
		item     todo.Item
		settings config.Settings
		want     []Mutation
	}{
		{
			name:     "date only",
			cmd:      Move{ID: "1", Date: day("2024-06-12")},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo},
			settings: config.DefaultSettings(),
			want:     []Mutation{SetAttribute("due", "2024-06-12")},
		},
		{
			name:     "date and status",
			cmd:      Move{ID: "1", Date: day("2024-06-10"), Status: todo.StatusComplete},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo},
			settings: config.DefaultSettings(),
			want: []Mutation{
				SetAttribute("due", "2024-06-10"),
				SetStatusTo(todo.StatusComplete, "completed"),
			},
		},
		{
			name:     "in progress without tracking",
			cmd:      Move{ID: "1", Date: day("2024-06-10"), Status: todo.StatusInProgress},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo},
			settings: config.DefaultSettings(),
			want: []Mutation{
				SetAttribute("due", "2024-06-10"),
				SetStatusTo(todo.StatusInProgress, "completed"),
			},
		},
		{
			name:     "in progress with tracking stamps started last",
			cmd:      Move{ID: "1", Date: day("2024-06-10"), Status: todo.StatusInProgress},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo},
			settings: tracking,
			want: []Mutation{
				SetAttribute("due", "2024-06-10"),
				SetStatusTo(todo.StatusInProgress, "completed"),
				SetAttribute("started", "2024-06-10"),
			},
		},
		{
			name:     "tracking keeps existing started",
			cmd:      Move{ID: "1", Date: day("2024-06-10"), Status: todo.StatusInProgress},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo, Attributes: map[string]string{"started": "2024-06-01"}},
			settings: tracking,
			want: []Mutation{
				SetAttribute("due", "2024-06-10"),
				SetStatusTo(todo.StatusInProgress, "completed"),
			},
		},
		{
			name:     "tracking ignores other statuses",
			cmd:      Move{ID: "1", Date: day("2024-06-10"), Status: todo.StatusTodo},
			item:     todo.Item{ID: "1", Status: todo.StatusTodo},
			settings: tracking,
			want: []Mutation{
				SetAttribute("due", "2024-06-10"),
				SetStatusTo(todo.StatusTodo, "completed"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Plan(tt.item, tt.settings, now))
		})
	}
}

func TestMove_PlanUsesConfiguredAttributes(t *testing.T) {
	s := config.DefaultSettings()
	s.Attributes = config.Attributes{Due: "scheduled", Completed: "done_on", Selected: "pin", Started: "begun"}
	s.TrackStartTime = true

	got := Move{ID: "1", Date: day("2024-07-01"), Status: todo.StatusInProgress}.Plan(todo.Item{ID: "1"}, s, now)

	assert.Equal(t, []Mutation{
		SetAttribute("scheduled", "2024-07-01"),
		SetStatusTo(todo.StatusInProgress, "done_on"),
		SetAttribute("begun", "2024-06-10"),
	}, got)
}

func TestRemoveDate_Plan(t *testing.T) {
	got := RemoveDate{ID: "1"}.Plan(todo.Item{ID: "1"}, config.DefaultSettings(), now)
	assert.Equal(t, []Mutation{RemoveAttribute("due")}, got)
}

func TestToggleStatus_Plan(t *testing.T) {
	tests := []struct {
		from todo.Status
		want todo.Status
	}{
		{todo.StatusTodo, todo.StatusComplete},
		{todo.StatusInProgress, todo.StatusComplete},
		{todo.StatusAttentionRequired, todo.StatusComplete},
		{todo.StatusDelegated, todo.StatusComplete},
		{todo.StatusComplete, todo.StatusTodo},
		{todo.StatusCanceled, todo.StatusTodo},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got := ToggleStatus{ID: "1"}.Plan(todo.Item{ID: "1", Status: tt.from}, config.DefaultSettings(), now)
			assert.Equal(t, []Mutation{SetStatusTo(tt.want, "completed")}, got)
		})
	}
}

func TestSetStatus_Plan(t *testing.T) {
	got := SetStatus{ID: "1", Status: todo.StatusDelegated}.Plan(
		todo.Item{ID: "1", Status: todo.StatusDelegated}, config.DefaultSettings(), now)
	assert.Equal(t, []Mutation{SetStatusTo(todo.StatusDelegated, "completed")}, got)
}

func TestStatusMenu(t *testing.T) {
	menu := StatusMenu("abc")

	assert.Len(t, menu, len(todo.Statuses))
	for i, c := range menu {
		assert.Equal(t, "abc", c.TodoID())
		assert.Equal(t, todo.Statuses[i], c.Status)
	}
}

func TestPreview(t *testing.T) {
	orig := todo.Item{
		ID:         "1",
		Status:     todo.StatusTodo,
		Attributes: map[string]string{"due": "2024-06-01", "selected": "true"},
	}

	muts := []Mutation{
		SetAttribute("due", "2024-06-12"),
		RemoveAttribute("selected"),
		SetStatusTo(todo.StatusComplete, "completed"),
	}

	got := Preview(orig, muts, now)

	assert.Equal(t, todo.StatusComplete, got.Status)
	assert.Equal(t, map[string]string{"due": "2024-06-12", "completed": "2024-06-10"}, got.Attributes)

	// input snapshot is untouched
	assert.Equal(t, todo.StatusTodo, orig.Status)
	assert.Equal(t, "2024-06-01", orig.Attributes["due"])
	assert.Equal(t, "true", orig.Attributes["selected"])
}

func TestPreview_ReopenClearsCompleted(t *testing.T) {
	orig := todo.Item{ID: "1", Status: todo.StatusCanceled, Attributes: map[string]string{"completed": "2024-06-01"}}

	got := Preview(orig, ToggleStatus{ID: "1"}.Plan(orig, config.DefaultSettings(), now), now)

	assert.Equal(t, todo.StatusTodo, got.Status)
	assert.False(t, got.HasAttribute("completed"))
}

func TestMutation_String(t *testing.T) {
	assert.Equal(t, "set due=2024-06-10", SetAttribute("due", "2024-06-10").String())
	assert.Equal(t, "remove due", RemoveAttribute("due").String())
	assert.Equal(t, "status complete", SetStatusTo(todo.StatusComplete, "completed").String())
}
