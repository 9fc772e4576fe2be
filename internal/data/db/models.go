package db

// Todo is a row of the todos table. Timestamps are unix nanoseconds.
type Todo struct {
	ID        string
	Status    string
	Text      string
	Source    string
	CreatedAt int64
	UpdatedAt int64
}

// TodoAttribute is a row of the todo_attributes table.
type TodoAttribute struct {
	TodoID string
	Name   string
	Value  string
}

// KvStore is a row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	CreatedAt int64
	UpdatedAt int64
}

// Notification is a row of the notifications table.
type Notification struct {
	ID        int64
	Level     string
	Kind      string
	TodoID    string
	Message   string
	CreatedAt int64
}
