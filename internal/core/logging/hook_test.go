package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "command and todo ids",
			setupCtx: func() context.Context {
				ctx := WithCommandID(context.Background(), "cmd-1")
				return WithTodoID(ctx, "todo-1")
			},
			wantKeys: []string{"command_id", "todo_id"},
		},
		{
			name: "only command id",
			setupCtx: func() context.Context {
				return WithCommandID(context.Background(), "cmd-1")
			},
			wantKeys:  []string{"command_id"},
			wantEmpty: []string{"todo_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"command_id", "todo_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := WithContextHook(zerolog.New(&buf))

			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, k := range tt.wantKeys {
				assert.Contains(t, entry, k)
			}
			for _, k := range tt.wantEmpty {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
