// Package board buckets a todo snapshot into the planning columns: the today
// group followed by backlog, past, daily, weekly, monthly and later.
//
// Generation is a pure function of (todos, settings, now).
package board

import (
	"time"

	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/todo"
)

// Bucket keys that do not depend on the date.
const (
	KeyTodayTodo       = "today.todo"
	KeyTodayInProgress = "today.in-progress"
	KeyTodayDone       = "today.done"
	KeyBacklog         = "backlog"
	KeyPast            = "past"
	KeyLater           = "later"
)

// Bucket is one labelled column of the board.
type Bucket struct {
	Key         string          `json:"key"`
	Icon        string          `json:"icon"`
	Title       string          `json:"title"`
	Range       daterange.Range `json:"-"`
	Todos       []todo.Item     `json:"todos"`
	HideIfEmpty bool            `json:"hide_if_empty"`
	Drop        *DropTarget     `json:"drop,omitempty"`
	Style       string          `json:"style,omitempty"`
}

// Hidden reports whether a renderer should collapse the bucket.
func (b Bucket) Hidden() bool {
	return b.HideIfEmpty && len(b.Todos) == 0
}

// Contains reports whether the bucket holds the todo with the given id.
func (b Bucket) Contains(id string) bool {
	for _, t := range b.Todos {
		if t.ID == id {
			return true
		}
	}
	return false
}

// DropTarget describes what happens to a todo released onto a bucket.
type DropTarget struct {
	// Due is the due date to assign. Zero together with RemoveDue clears it.
	Due       time.Time   `json:"due,omitempty"`
	RemoveDue bool        `json:"remove_due,omitempty"`
	Status    todo.Status `json:"status,omitempty"` // empty leaves the status unchanged
}

// Command builds the command that moves todoID into the bucket.
func (d DropTarget) Command(todoID string) command.Command {
	if d.RemoveDue {
		return command.RemoveDate{ID: todoID}
	}
	return command.Move{ID: todoID, Date: d.Due, Status: d.Status}
}

// Board is the full result of one generation pass.
type Board struct {
	Today      []Bucket  `json:"today"`
	TodayStyle string    `json:"today_style,omitempty"`
	Columns    []Bucket  `json:"columns"`
	Date       time.Time `json:"date"`
}

// All returns the today group followed by the main sequence.
func (b Board) All() []Bucket {
	out := make([]Bucket, 0, len(b.Today)+len(b.Columns))
	out = append(out, b.Today...)
	out = append(out, b.Columns...)
	return out
}

// Find returns the bucket with the given key.
func (b Board) Find(key string) (Bucket, bool) {
	for _, bucket := range b.All() {
		if bucket.Key == key {
			return bucket, true
		}
	}
	return Bucket{}, false
}

// Place returns the keys of every bucket holding the todo.
func (b Board) Place(id string) []string {
	var keys []string
	for _, bucket := range b.All() {
		if bucket.Contains(id) {
			keys = append(keys, bucket.Key)
		}
	}
	return keys
}
