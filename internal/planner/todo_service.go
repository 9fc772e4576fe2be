package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/todo"
)

// TodoService wraps todo.Store with validation and event publishing. It is
// the persistence collaborator commands write through: every successful
// write publishes todos.updated so the board recomputes.
type TodoService struct {
	store todo.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

var _ command.Persistence = (*TodoService)(nil)

// NewTodoService creates a new TodoService.
func NewTodoService(store todo.Store, bus *eventbus.EventBus, log zerolog.Logger) *TodoService {
	return &TodoService{
		store: store,
		bus:   bus,
		log:   log.With().Str("component", "todo-service").Logger(),
	}
}

// Create adds a new item. Text is required.
func (s *TodoService) Create(ctx context.Context, item *todo.Item) error {
	item.Text = strings.TrimSpace(item.Text)
	if item.Text == "" {
		return fmt.Errorf("create todo: text cannot be empty")
	}

	if err := s.store.Create(ctx, item); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	s.log.Debug().Str("todo_id", item.ID).Msg("todo created")
	s.publish(item.ID, eventbus.TodoCreated)
	return nil
}

// Get returns a single item by ID.
func (s *TodoService) Get(ctx context.Context, id string) (todo.Item, error) {
	return s.store.Get(ctx, id)
}

// List returns the current snapshot of the collection.
func (s *TodoService) List(ctx context.Context) ([]todo.Item, error) {
	return s.store.List(ctx)
}

// Delete removes an item.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	s.publish(id, eventbus.TodoDeleted)
	return nil
}

// UpdateAttribute sets name=value on the item.
func (s *TodoService) UpdateAttribute(ctx context.Context, id, name, value string) error {
	if err := s.store.UpdateAttribute(ctx, id, name, value); err != nil {
		return fmt.Errorf("update attribute %s: %w", name, err)
	}
	s.publish(id, eventbus.TodoModified)
	return nil
}

// RemoveAttribute clears name on the item.
func (s *TodoService) RemoveAttribute(ctx context.Context, id, name string) error {
	if err := s.store.RemoveAttribute(ctx, id, name); err != nil {
		return fmt.Errorf("remove attribute %s: %w", name, err)
	}
	s.publish(id, eventbus.TodoModified)
	return nil
}

// UpdateStatus writes status and maintains completedAttr.
func (s *TodoService) UpdateStatus(ctx context.Context, id string, status todo.Status, completedAttr string) error {
	if err := s.store.UpdateStatus(ctx, id, status, completedAttr); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	s.publish(id, eventbus.TodoModified)
	return nil
}

func (s *TodoService) publish(id string, change eventbus.TodoChange) {
	if s.bus == nil {
		return
	}
	s.bus.PublishTodosUpdated(eventbus.TodosUpdatedPayload{TodoID: id, Change: change})
}
