package eventbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/notify"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus

	mu        sync.Mutex
	overToday bool
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeCommandFailed(func(p CommandFailedPayload) {
		if errors.Is(p.Err, command.ErrNotFound) {
			r.notifyf(notify.LevelWarning, EventCommandFailed, p.TodoID, "%s dropped: todo %s not found", p.Command, p.TodoID)
			return
		}
		r.notifyf(notify.LevelError, EventCommandFailed, p.TodoID, "%s on %s failed: %v", p.Command, p.TodoID, p.Err)
	})

	r.bus.SubscribeConfigReloaded(func(p ConfigReloadedPayload) {
		r.notifyf(notify.LevelInfo, EventConfigReloaded, "", "configuration reloaded")
	})

	r.bus.SubscribeBoardUpdated(func(p BoardUpdatedPayload) {
		over := p.Board.TodayStyle == board.StyleTodayExceeded

		r.mu.Lock()
		crossed := over && !r.overToday
		r.overToday = over
		r.mu.Unlock()

		if crossed {
			r.notifyf(notify.LevelWarning, EventBoardUpdated, "", "today is over the WIP limit")
		}
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, kind Event, todoID, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Kind:    kind,
		TodoID:  todoID,
		Message: fmt.Sprintf(format, args...),
	})
}
