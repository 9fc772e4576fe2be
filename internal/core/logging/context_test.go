package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandID(t *testing.T) {
	ctx := WithCommandID(context.Background(), "cmd-123")
	assert.Equal(t, "cmd-123", GetCommandID(ctx))
	assert.Empty(t, GetTodoID(ctx))
}

func TestTodoID(t *testing.T) {
	ctx := WithTodoID(context.Background(), "todo-456")
	assert.Equal(t, "todo-456", GetTodoID(ctx))
	assert.Empty(t, GetCommandID(ctx))
}

func TestGetters_EmptyContext(t *testing.T) {
	assert.Empty(t, GetCommandID(context.Background()))
	assert.Empty(t, GetTodoID(context.Background()))
}
