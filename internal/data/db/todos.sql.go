package db

import "context"

const createTodo = `
INSERT INTO todos (id, status, text, source, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateTodoParams struct {
	ID        string
	Status    string
	Text      string
	Source    string
	CreatedAt int64
	UpdatedAt int64
}

func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) error {
	_, err := q.db.ExecContext(ctx, createTodo,
		arg.ID, arg.Status, arg.Text, arg.Source, arg.CreatedAt, arg.UpdatedAt,
	)
	return err
}

const getTodo = `
SELECT id, status, text, source, created_at, updated_at
FROM todos
WHERE id = ?
`

func (q *Queries) GetTodo(ctx context.Context, id string) (Todo, error) {
	row := q.db.QueryRowContext(ctx, getTodo, id)
	var i Todo
	err := row.Scan(&i.ID, &i.Status, &i.Text, &i.Source, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listTodos = `
SELECT id, status, text, source, created_at, updated_at
FROM todos
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListTodos(ctx context.Context) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx, listTodos)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Todo
	for rows.Next() {
		var i Todo
		if err := rows.Scan(&i.ID, &i.Status, &i.Text, &i.Source, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateTodoStatus = `
UPDATE todos SET status = ?, updated_at = ? WHERE id = ?
`

type UpdateTodoStatusParams struct {
	Status    string
	UpdatedAt int64
	ID        string
}

func (q *Queries) UpdateTodoStatus(ctx context.Context, arg UpdateTodoStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTodoStatus, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const touchTodo = `
UPDATE todos SET updated_at = ? WHERE id = ?
`

type TouchTodoParams struct {
	UpdatedAt int64
	ID        string
}

func (q *Queries) TouchTodo(ctx context.Context, arg TouchTodoParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, touchTodo, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTodo = `
DELETE FROM todos WHERE id = ?
`

func (q *Queries) DeleteTodo(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTodo, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTodoAttributes = `
SELECT todo_id, name, value
FROM todo_attributes
ORDER BY todo_id, name
`

func (q *Queries) ListTodoAttributes(ctx context.Context) ([]TodoAttribute, error) {
	return q.scanAttributes(ctx, listTodoAttributes)
}

const listTodoAttributesByTodo = `
SELECT todo_id, name, value
FROM todo_attributes
WHERE todo_id = ?
ORDER BY name
`

func (q *Queries) ListTodoAttributesByTodo(ctx context.Context, todoID string) ([]TodoAttribute, error) {
	return q.scanAttributes(ctx, listTodoAttributesByTodo, todoID)
}

func (q *Queries) scanAttributes(ctx context.Context, query string, args ...any) ([]TodoAttribute, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []TodoAttribute
	for rows.Next() {
		var i TodoAttribute
		if err := rows.Scan(&i.TodoID, &i.Name, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertTodoAttribute = `
INSERT INTO todo_attributes (todo_id, name, value)
VALUES (?, ?, ?)
ON CONFLICT (todo_id, name) DO UPDATE SET value = excluded.value
`

type UpsertTodoAttributeParams struct {
	TodoID string
	Name   string
	Value  string
}

func (q *Queries) UpsertTodoAttribute(ctx context.Context, arg UpsertTodoAttributeParams) error {
	_, err := q.db.ExecContext(ctx, upsertTodoAttribute, arg.TodoID, arg.Name, arg.Value)
	return err
}

const deleteTodoAttribute = `
DELETE FROM todo_attributes WHERE todo_id = ? AND name = ?
`

type DeleteTodoAttributeParams struct {
	TodoID string
	Name   string
}

func (q *Queries) DeleteTodoAttribute(ctx context.Context, arg DeleteTodoAttributeParams) error {
	_, err := q.db.ExecContext(ctx, deleteTodoAttribute, arg.TodoID, arg.Name)
	return err
}
