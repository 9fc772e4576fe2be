package command

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/todo"
)

// Persistence writes mutations back to wherever todos live.
type Persistence interface {
	UpdateAttribute(ctx context.Context, id, name, value string) error
	RemoveAttribute(ctx context.Context, id, name string) error
	// UpdateStatus writes status and keeps completedAttr in step with it.
	UpdateStatus(ctx context.Context, id string, status todo.Status, completedAttr string) error
}

// MutationError reports the sub-request that stopped a command. Mutations
// after Index were not attempted.
type MutationError struct {
	Index    int
	Mutation Mutation
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %d (%s): %v", e.Index, e.Mutation, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Result describes an executed command.
type Result struct {
	TodoID    string     `json:"todo_id"`
	Command   string     `json:"command"`
	Mutations []Mutation `json:"mutations"`
}

// Executor runs commands against a snapshot through a Persistence.
type Executor struct {
	persist Persistence
	log     zerolog.Logger
	now     func() time.Time
}

// NewExecutor creates an executor writing through p.
func NewExecutor(p Persistence, log zerolog.Logger) *Executor {
	return &Executor{
		persist: p,
		log:     log.With().Str("component", "command").Logger(),
		now:     time.Now,
	}
}

// Execute plans cmd against its todo in snapshot and issues the mutations in
// order, waiting for each before the next. The first failure stops the chain.
// A todo missing from the snapshot is reported and ErrNotFound is returned.
func (e *Executor) Execute(ctx context.Context, snapshot []todo.Item, cmd Command, s config.Settings) (Result, error) {
	res := Result{TodoID: cmd.TodoID(), Command: cmd.Name()}

	item, ok := find(snapshot, cmd.TodoID())
	if !ok {
		e.log.Warn().Ctx(ctx).
			Str("command", cmd.Name()).
			Str("todo_id", cmd.TodoID()).
			Msg("command references unknown todo, dropping")
		return res, fmt.Errorf("%s %q: %w", cmd.Name(), cmd.TodoID(), ErrNotFound)
	}

	res.Mutations = cmd.Plan(item, s, e.now())

	for i, m := range res.Mutations {
		if err := e.apply(ctx, item.ID, m); err != nil {
			e.log.Error().Ctx(ctx).Err(err).
				Str("command", cmd.Name()).
				Str("todo_id", item.ID).
				Int("index", i).
				Msg("mutation failed")
			return res, &MutationError{Index: i, Mutation: m, Err: err}
		}
	}

	e.log.Debug().Ctx(ctx).
		Str("command", cmd.Name()).
		Str("todo_id", item.ID).
		Int("mutations", len(res.Mutations)).
		Msg("command applied")

	return res, nil
}

func (e *Executor) apply(ctx context.Context, id string, m Mutation) error {
	switch m.Kind {
	case KindSetAttribute:
		return e.persist.UpdateAttribute(ctx, id, m.Attribute, m.Value)
	case KindRemoveAttribute:
		return e.persist.RemoveAttribute(ctx, id, m.Attribute)
	case KindSetStatus:
		return e.persist.UpdateStatus(ctx, id, m.Status, m.Attribute)
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
}

func find(items []todo.Item, id string) (todo.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return todo.Item{}, false
}
