// Package command turns board interactions into ordered attribute and status
// mutations. Commands are pure intent; Executor issues them to persistence.
package command

import (
	"errors"
	"time"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/todo"
)

var (
	// ErrNotFound is returned when a command references a todo that is not in
	// the current snapshot.
	ErrNotFound = todo.ErrNotFound
	// ErrNoDropTarget is returned when a todo is moved onto a bucket that
	// does not accept drops.
	ErrNoDropTarget = errors.New("bucket does not accept drops")
)

// Command is a user action targeting a single todo.
type Command interface {
	TodoID() string
	Name() string
	// Plan returns the mutations to issue, in order, for item.
	Plan(item todo.Item, s config.Settings, now time.Time) []Mutation
}

// Move sets the due date and optionally the status.
type Move struct {
	ID     string
	Date   time.Time
	Status todo.Status // empty leaves the status unchanged
}

func (c Move) TodoID() string { return c.ID }
func (c Move) Name() string   { return "move" }

func (c Move) Plan(item todo.Item, s config.Settings, now time.Time) []Mutation {
	muts := []Mutation{SetAttribute(s.Attributes.Due, daterange.Format(c.Date))}
	if c.Status == "" {
		return muts
	}

	muts = append(muts, SetStatusTo(c.Status, s.Attributes.Completed))
	if s.TrackStartTime && c.Status == todo.StatusInProgress && !item.HasAttribute(s.Attributes.Started) {
		muts = append(muts, SetAttribute(s.Attributes.Started, daterange.Format(daterange.Day(now))))
	}
	return muts
}

// RemoveDate clears the due date.
type RemoveDate struct {
	ID string
}

func (c RemoveDate) TodoID() string { return c.ID }
func (c RemoveDate) Name() string   { return "remove-date" }

func (c RemoveDate) Plan(_ todo.Item, s config.Settings, _ time.Time) []Mutation {
	return []Mutation{RemoveAttribute(s.Attributes.Due)}
}

// ToggleStatus reopens a done todo and completes an open one.
type ToggleStatus struct {
	ID string
}

func (c ToggleStatus) TodoID() string { return c.ID }
func (c ToggleStatus) Name() string   { return "toggle-status" }

func (c ToggleStatus) Plan(item todo.Item, s config.Settings, _ time.Time) []Mutation {
	next := todo.StatusComplete
	if item.Status.IsDone() {
		next = todo.StatusTodo
	}
	return []Mutation{SetStatusTo(next, s.Attributes.Completed)}
}

// SetStatus writes a status unconditionally.
type SetStatus struct {
	ID     string
	Status todo.Status
}

func (c SetStatus) TodoID() string { return c.ID }
func (c SetStatus) Name() string   { return "set-status" }

func (c SetStatus) Plan(_ todo.Item, s config.Settings, _ time.Time) []Mutation {
	return []Mutation{SetStatusTo(c.Status, s.Attributes.Completed)}
}

// StatusMenu returns one SetStatus command per status, in menu order.
func StatusMenu(id string) []SetStatus {
	out := make([]SetStatus, 0, len(todo.Statuses))
	for _, st := range todo.Statuses {
		out = append(out, SetStatus{ID: id, Status: st})
	}
	return out
}
