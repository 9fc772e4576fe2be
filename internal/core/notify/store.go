// Package notify holds user-facing reports about board activity, such as
// commands that were dropped or failed to persist.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single report shown by `planboard notifications`.
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Kind      string    `json:"kind"` // event that produced it, e.g. command.failed
	TodoID    string    `json:"todo_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	// List returns the newest notifications first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
