package planner

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/notify"
	"github.com/colonyops/planboard/internal/data/stores"
)

func TestNotificationService_PersistsRoutedFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	svc := NewNotificationService(stores.NewNotifyStore(env.db), zerolog.Nop())
	svc.Subscribe(env.bus.EventBus)
	eventbus.NewNotificationRouter(env.bus.EventBus).Register()

	_, err := env.commands.Dispatch(ctx, command.ToggleStatus{ID: "ghost"})
	require.ErrorIs(t, err, command.ErrNotFound)

	require.Eventually(t, func() bool {
		n, err := svc.Count(ctx)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	list, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notify.LevelWarning, list[0].Level)
	assert.Equal(t, string(eventbus.EventCommandFailed), list[0].Kind)
	assert.Equal(t, "ghost", list[0].TodoID)
	assert.Contains(t, list[0].Message, "not found")

	require.NoError(t, svc.Clear(ctx))
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
