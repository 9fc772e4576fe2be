package command

import (
	"fmt"
	"time"

	"github.com/colonyops/planboard/internal/core/todo"
)

// Kind identifies the sub-request a mutation issues to persistence.
type Kind string

const (
	KindSetAttribute    Kind = "set-attribute"
	KindRemoveAttribute Kind = "remove-attribute"
	KindSetStatus       Kind = "set-status"
)

// Mutation is a single attribute or status change requested by a command.
// For KindSetStatus, Attribute names the completed-date attribute the
// persistence layer keeps in step with the status.
type Mutation struct {
	Kind      Kind        `json:"kind"`
	Attribute string      `json:"attribute,omitempty"`
	Value     string      `json:"value,omitempty"`
	Status    todo.Status `json:"status,omitempty"`
}

func (m Mutation) String() string {
	switch m.Kind {
	case KindSetAttribute:
		return fmt.Sprintf("set %s=%s", m.Attribute, m.Value)
	case KindRemoveAttribute:
		return fmt.Sprintf("remove %s", m.Attribute)
	case KindSetStatus:
		return fmt.Sprintf("status %s", m.Status)
	default:
		return string(m.Kind)
	}
}

// SetAttribute requests name=value.
func SetAttribute(name, value string) Mutation {
	return Mutation{Kind: KindSetAttribute, Attribute: name, Value: value}
}

// RemoveAttribute requests that name be cleared.
func RemoveAttribute(name string) Mutation {
	return Mutation{Kind: KindRemoveAttribute, Attribute: name}
}

// SetStatusTo requests a status write that maintains completedAttr.
func SetStatusTo(status todo.Status, completedAttr string) Mutation {
	return Mutation{Kind: KindSetStatus, Status: status, Attribute: completedAttr}
}

// Preview applies muts to a copy of item the way persistence would, including
// the completed-date side effect of status writes. The input is not modified.
func Preview(item todo.Item, muts []Mutation, now time.Time) todo.Item {
	out := item.Clone()
	for _, m := range muts {
		switch m.Kind {
		case KindSetAttribute:
			if out.Attributes == nil {
				out.Attributes = map[string]string{}
			}
			out.Attributes[m.Attribute] = m.Value
		case KindRemoveAttribute:
			delete(out.Attributes, m.Attribute)
		case KindSetStatus:
			out.SetStatus(m.Status, m.Attribute, now)
		}
	}
	return out
}
