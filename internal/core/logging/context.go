package logging

import "context"

type contextKey string

const (
	commandIDKey contextKey = "command_id"
	todoIDKey    contextKey = "todo_id"
)

// WithCommandID adds a command correlation ID to the context.
func WithCommandID(ctx context.Context, commandID string) context.Context {
	return context.WithValue(ctx, commandIDKey, commandID)
}

// WithTodoID adds the ID of the todo a command targets to the context.
func WithTodoID(ctx context.Context, todoID string) context.Context {
	return context.WithValue(ctx, todoIDKey, todoID)
}

// GetCommandID retrieves the command ID from the context.
// Returns empty string if not present.
func GetCommandID(ctx context.Context) string {
	if id, ok := ctx.Value(commandIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTodoID retrieves the todo ID from the context.
// Returns empty string if not present.
func GetTodoID(ctx context.Context) string {
	if id, ok := ctx.Value(todoIDKey).(string); ok {
		return id
	}
	return ""
}
