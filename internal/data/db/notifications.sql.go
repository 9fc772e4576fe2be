package db

import "context"

const insertNotification = `
INSERT INTO notifications (level, kind, todo_id, message, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type InsertNotificationParams struct {
	Level     string
	Kind      string
	TodoID    string
	Message   string
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertNotification,
		arg.Level, arg.Kind, arg.TodoID, arg.Message, arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listNotifications = `
SELECT id, level, kind, todo_id, message, created_at
FROM notifications
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// ListNotifications returns the newest rows first. A negative limit
// returns every row.
func (q *Queries) ListNotifications(ctx context.Context, limit int64) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.Level, &i.Kind, &i.TodoID, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteAllNotifications = `
DELETE FROM notifications
`

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `
SELECT COUNT(*) FROM notifications
`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNotifications)
	var count int64
	err := row.Scan(&count)
	return count, err
}
