// Package todo defines the todo item domain model used by the planning board.
package todo

import (
	"maps"
	"strings"
	"time"
)

// Status represents the lifecycle state of a todo item.
type Status string

const (
	StatusTodo              Status = "todo"
	StatusInProgress        Status = "in-progress"
	StatusAttentionRequired Status = "attention-required"
	StatusDelegated         Status = "delegated"
	StatusComplete          Status = "complete"
	StatusCanceled          Status = "canceled"
)

// Statuses lists every status in menu order.
var Statuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusAttentionRequired,
	StatusDelegated,
	StatusComplete,
	StatusCanceled,
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusAttentionRequired,
		StatusDelegated, StatusComplete, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsDone reports whether s is a terminal state. Only complete and canceled
// count as done; every other status is open.
func (s Status) IsDone() bool {
	return s == StatusComplete || s == StatusCanceled
}

// Label returns the human readable name shown in the status menu.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In progress"
	case StatusAttentionRequired:
		return "Attention required"
	case StatusDelegated:
		return "Delegated"
	case StatusComplete:
		return "Complete"
	case StatusCanceled:
		return "Canceled"
	default:
		return string(s)
	}
}

// Icon returns the glyph drawn next to an item with this status.
func (s Status) Icon() string {
	switch s {
	case StatusTodo:
		return "[ ]"
	case StatusInProgress:
		return "[>]"
	case StatusAttentionRequired:
		return "[!]"
	case StatusDelegated:
		return "[d]"
	case StatusComplete:
		return "[x]"
	case StatusCanceled:
		return "[-]"
	default:
		return "[?]"
	}
}

// ParseStatus converts user input into a Status. Labels and the
// snake/space spelled variants are accepted.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if norm == "cancelled" {
		norm = string(StatusCanceled)
	}
	st := Status(norm)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Item is a single todo. The board core treats items as immutable snapshots:
// changes are proposed as mutations and come back as a fresh Item.
type Item struct {
	ID         string            `json:"id"`
	Status     Status            `json:"status"`
	Text       string            `json:"text"`
	Source     string            `json:"source,omitempty"` // owning document, never interpreted by the core
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Attribute returns the raw value of the named attribute.
func (i Item) Attribute(name string) (string, bool) {
	if i.Attributes == nil {
		return "", false
	}
	v, ok := i.Attributes[name]
	return v, ok
}

// HasAttribute reports whether the attribute is present with a non-empty value.
func (i Item) HasAttribute(name string) bool {
	v, ok := i.Attribute(name)
	return ok && strings.TrimSpace(v) != ""
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	out.Attributes = maps.Clone(i.Attributes)
	return out
}

// IsSelected reports whether the item carries the selected marker. A present
// attribute counts as selected unless its value is false-like.
func IsSelected(i Item, attr string) bool {
	v, ok := i.Attribute(attr)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

// SetStatus writes status onto the item and keeps completedAttr in step:
// entering a done state stamps the calendar day of now in its own location
// unless a date is already there from a previous done state, leaving one
// clears it.
func (i *Item) SetStatus(status Status, completedAttr string, now time.Time) {
	wasDone := i.Status.IsDone()
	i.Status = status

	if completedAttr == "" {
		return
	}

	switch {
	case status.IsDone() && (!wasDone || !i.HasAttribute(completedAttr)):
		if i.Attributes == nil {
			i.Attributes = map[string]string{}
		}
		i.Attributes[completedAttr] = now.Format(time.DateOnly)
	case !status.IsDone():
		delete(i.Attributes, completedAttr)
	}
}
