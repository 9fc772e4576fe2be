package eventbus_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/eventbus/testbus"
	"github.com/colonyops/planboard/internal/core/notify"
)

func latestNotificationPayload(tb *testbus.Bus, t *testing.T) eventbus.NotificationPublishedPayload {
	t.Helper()
	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	last, ok := tb.Last(eventbus.EventNotificationPublished)
	require.True(t, ok)
	payload, ok := last.(eventbus.NotificationPublishedPayload)
	require.True(t, ok)
	return payload
}

func TestNotificationRouter_UnknownTodo(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishCommandFailed(eventbus.CommandFailedPayload{
		Command: "toggle-status",
		TodoID:  "ghost",
		Err:     fmt.Errorf("toggle-status %q: %w", "ghost", command.ErrNotFound),
	})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelWarning, p.Level)
	assert.Equal(t, eventbus.EventCommandFailed, p.Kind)
	assert.Equal(t, "ghost", p.TodoID)
	assert.Contains(t, p.Message, "not found")
}

func TestNotificationRouter_PersistenceFailure(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishCommandFailed(eventbus.CommandFailedPayload{
		Command: "move",
		TodoID:  "a",
		Err:     &command.MutationError{Index: 0, Mutation: command.SetAttribute("due", "2024-06-10"), Err: errors.New("disk full")},
	})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelError, p.Level)
	assert.Contains(t, p.Message, "disk full")
}

func TestNotificationRouter_ConfigReloaded(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishConfigReloaded(eventbus.ConfigReloadedPayload{})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
}

func TestNotificationRouter_WIPCrossingOnlyOnce(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	over := board.Board{TodayStyle: board.StyleTodayExceeded}

	tb.PublishBoardUpdated(eventbus.BoardUpdatedPayload{Board: over})
	tb.PublishBoardUpdated(eventbus.BoardUpdatedPayload{Board: over})
	tb.PublishBoardUpdated(eventbus.BoardUpdatedPayload{Board: board.Board{}})
	tb.PublishBoardUpdated(eventbus.BoardUpdatedPayload{Board: over})

	require.True(t, tb.WaitForCount(eventbus.EventNotificationPublished, 2, time.Second))
	tb.AssertNotPublished(t, eventbus.EventCommandFailed, 20*time.Millisecond)
	assert.Equal(t, 2, tb.Count(eventbus.EventNotificationPublished))
}
