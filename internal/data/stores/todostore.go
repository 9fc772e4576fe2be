package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/internal/data/db"
	"github.com/colonyops/planboard/pkg/randid"
)

// TodoStore implements todo.Store using SQLite. Attributes live in their own
// table keyed by (todo_id, name) so a single attribute write never rewrites
// the rest of the item.
type TodoStore struct {
	db  *db.DB
	now func() time.Time
}

var _ todo.Store = (*TodoStore)(nil)

// NewTodoStore creates a new SQLite-backed todo store.
func NewTodoStore(db *db.DB) *TodoStore {
	return &TodoStore{db: db, now: time.Now}
}

// writeTx runs fn in a transaction, retrying while another connection holds
// the write lock.
func (s *TodoStore) writeTx(ctx context.Context, fn func(*db.Queries) error) error {
	return retryBusy(ctx, func() error { return s.db.WithTx(ctx, fn) })
}

// Create persists a new item. Generates an ID if not set and defaults the
// status to todo.
func (s *TodoStore) Create(ctx context.Context, item *todo.Item) error {
	if item.ID == "" {
		item.ID = randid.Generate(8)
	}
	if item.Status == "" {
		item.Status = todo.StatusTodo
	}
	if !item.Status.IsValid() {
		return fmt.Errorf("create todo item %q: %w", item.Status, todo.ErrInvalidStatus)
	}

	now := s.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	return s.writeTx(ctx, func(q *db.Queries) error {
		err := q.CreateTodo(ctx, db.CreateTodoParams{
			ID:        item.ID,
			Status:    string(item.Status),
			Text:      item.Text,
			Source:    item.Source,
			CreatedAt: item.CreatedAt.UnixNano(),
			UpdatedAt: item.UpdatedAt.UnixNano(),
		})
		if err != nil {
			if IsConstraintError(err) {
				return fmt.Errorf("create todo item %q: %w", item.ID, todo.ErrDuplicate)
			}
			return fmt.Errorf("create todo item: %w", err)
		}

		for name, value := range item.Attributes {
			if err := q.UpsertTodoAttribute(ctx, db.UpsertTodoAttributeParams{
				TodoID: item.ID,
				Name:   name,
				Value:  value,
			}); err != nil {
				return fmt.Errorf("create todo attribute %q: %w", name, err)
			}
		}
		return nil
	})
}

// Get returns a single item by ID.
func (s *TodoStore) Get(ctx context.Context, id string) (todo.Item, error) {
	return s.get(ctx, s.db.Queries(), id)
}

func (s *TodoStore) get(ctx context.Context, q *db.Queries, id string) (todo.Item, error) {
	row, err := q.GetTodo(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return todo.Item{}, todo.ErrNotFound
		}
		return todo.Item{}, fmt.Errorf("get todo item: %w", err)
	}

	attrs, err := q.ListTodoAttributesByTodo(ctx, id)
	if err != nil {
		return todo.Item{}, fmt.Errorf("get todo attributes: %w", err)
	}

	item := rowToTodoItem(row)
	for _, a := range attrs {
		setAttr(&item, a.Name, a.Value)
	}
	return item, nil
}

// List returns every item ordered by creation time.
func (s *TodoStore) List(ctx context.Context) ([]todo.Item, error) {
	q := s.db.Queries()

	rows, err := q.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todo items: %w", err)
	}

	attrs, err := q.ListTodoAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todo attributes: %w", err)
	}

	byID := make(map[string]int, len(rows))
	items := make([]todo.Item, 0, len(rows))
	for i, row := range rows {
		byID[row.ID] = i
		items = append(items, rowToTodoItem(row))
	}

	for _, a := range attrs {
		if i, ok := byID[a.TodoID]; ok {
			setAttr(&items[i], a.Name, a.Value)
		}
	}

	return items, nil
}

// Delete removes an item. Attributes are removed by the foreign key cascade.
func (s *TodoStore) Delete(ctx context.Context, id string) error {
	n, err := s.db.Queries().DeleteTodo(ctx, id)
	if err != nil {
		return fmt.Errorf("delete todo item: %w", err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// UpdateAttribute sets name=value on the item.
func (s *TodoStore) UpdateAttribute(ctx context.Context, id, name, value string) error {
	return s.writeTx(ctx, func(q *db.Queries) error {
		if err := s.touch(ctx, q, id); err != nil {
			return err
		}

		err := q.UpsertTodoAttribute(ctx, db.UpsertTodoAttributeParams{TodoID: id, Name: name, Value: value})
		if err != nil {
			return fmt.Errorf("update todo attribute %q: %w", name, err)
		}
		return nil
	})
}

// RemoveAttribute deletes name from the item.
func (s *TodoStore) RemoveAttribute(ctx context.Context, id, name string) error {
	return s.writeTx(ctx, func(q *db.Queries) error {
		if err := s.touch(ctx, q, id); err != nil {
			return err
		}

		if err := q.DeleteTodoAttribute(ctx, db.DeleteTodoAttributeParams{TodoID: id, Name: name}); err != nil {
			return fmt.Errorf("remove todo attribute %q: %w", name, err)
		}
		return nil
	})
}

// UpdateStatus writes the status and keeps completedAttr in step with it in
// the same transaction.
func (s *TodoStore) UpdateStatus(ctx context.Context, id string, status todo.Status, completedAttr string) error {
	if !status.IsValid() {
		return fmt.Errorf("update todo status %q: %w", status, todo.ErrInvalidStatus)
	}

	now := s.now()
	return s.writeTx(ctx, func(q *db.Queries) error {
		item, err := s.get(ctx, q, id)
		if err != nil {
			return err
		}

		before, hadBefore := item.Attribute(completedAttr)
		item.SetStatus(status, completedAttr, now)
		after, hasAfter := item.Attribute(completedAttr)

		if _, err := q.UpdateTodoStatus(ctx, db.UpdateTodoStatusParams{
			Status:    string(status),
			UpdatedAt: now.UnixNano(),
			ID:        id,
		}); err != nil {
			return fmt.Errorf("update todo status: %w", err)
		}

		switch {
		case completedAttr == "":
		case hasAfter && (!hadBefore || before != after):
			err = q.UpsertTodoAttribute(ctx, db.UpsertTodoAttributeParams{TodoID: id, Name: completedAttr, Value: after})
		case !hasAfter && hadBefore:
			err = q.DeleteTodoAttribute(ctx, db.DeleteTodoAttributeParams{TodoID: id, Name: completedAttr})
		}
		if err != nil {
			return fmt.Errorf("update completed attribute %q: %w", completedAttr, err)
		}

		return nil
	})
}

func (s *TodoStore) touch(ctx context.Context, q *db.Queries, id string) error {
	n, err := q.TouchTodo(ctx, db.TouchTodoParams{UpdatedAt: s.now().UnixNano(), ID: id})
	if err != nil {
		return fmt.Errorf("touch todo item: %w", err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}

func rowToTodoItem(row db.Todo) todo.Item {
	return todo.Item{
		ID:        row.ID,
		Status:    todo.Status(row.Status),
		Text:      row.Text,
		Source:    row.Source,
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}
}

func setAttr(item *todo.Item, name, value string) {
	if item.Attributes == nil {
		item.Attributes = make(map[string]string)
	}
	item.Attributes[name] = value
}
