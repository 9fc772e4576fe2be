// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within planboard.
package eventbus

import (
	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/notify"
)

// Keep list sorted A-Z
const (
	EventBoardUpdated          Event = "board.updated"
	EventCommandApplied        Event = "command.applied"
	EventCommandFailed         Event = "command.failed"
	EventConfigReloaded        Event = "config.reloaded"
	EventNotificationPublished Event = "notification.published"
	EventSettingsChanged       Event = "settings.changed"
	EventTodosUpdated          Event = "todos.updated"
)

// BoardUpdatedPayload is emitted after every board recompute.
type BoardUpdatedPayload struct {
	Board board.Board
}

// CommandAppliedPayload is emitted when every mutation of a command persisted.
type CommandAppliedPayload struct {
	CommandID string
	Result    command.Result
}

// CommandFailedPayload is emitted when a command was dropped or a mutation
// failed. Err wraps command.ErrNotFound or a *command.MutationError.
type CommandFailedPayload struct {
	CommandID string
	Command   string
	TodoID    string
	Err       error
}

// ConfigReloadedPayload is emitted when the config file changed on disk.
type ConfigReloadedPayload struct {
	Config *config.Config
}

// NotificationPublishedPayload is emitted for user-facing reports.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Kind    Event
	TodoID  string
	Message string
}

// SettingsChangedPayload is emitted after a setting override was persisted.
type SettingsChangedPayload struct {
	Key      string
	Value    string // empty when the override was reset
	Settings config.Settings
}

// TodoChange describes what happened to the collection.
type TodoChange string

const (
	TodoCreated   TodoChange = "created"
	TodoModified  TodoChange = "modified"
	TodoDeleted   TodoChange = "deleted"
	TodosExternal TodoChange = "external" // written by another process
)

// TodosUpdatedPayload is emitted after any write to the todo collection.
type TodosUpdatedPayload struct {
	TodoID string // empty for external changes
	Change TodoChange
}

func (bus *EventBus) PublishBoardUpdated(p BoardUpdatedPayload) {
	bus.send(EventBoardUpdated, p)
}

func (bus *EventBus) SubscribeBoardUpdated(fn func(BoardUpdatedPayload)) {
	bus.subscribe(EventBoardUpdated, func(p any) { fn(p.(BoardUpdatedPayload)) })
}

func (bus *EventBus) PublishCommandApplied(p CommandAppliedPayload) {
	bus.send(EventCommandApplied, p)
}

func (bus *EventBus) SubscribeCommandApplied(fn func(CommandAppliedPayload)) {
	bus.subscribe(EventCommandApplied, func(p any) { fn(p.(CommandAppliedPayload)) })
}

func (bus *EventBus) PublishCommandFailed(p CommandFailedPayload) {
	bus.send(EventCommandFailed, p)
}

func (bus *EventBus) SubscribeCommandFailed(fn func(CommandFailedPayload)) {
	bus.subscribe(EventCommandFailed, func(p any) { fn(p.(CommandFailedPayload)) })
}

func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) {
	bus.send(EventConfigReloaded, p)
}

func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) {
	bus.subscribe(EventConfigReloaded, func(p any) { fn(p.(ConfigReloadedPayload)) })
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

func (bus *EventBus) PublishSettingsChanged(p SettingsChangedPayload) {
	bus.send(EventSettingsChanged, p)
}

func (bus *EventBus) SubscribeSettingsChanged(fn func(SettingsChangedPayload)) {
	bus.subscribe(EventSettingsChanged, func(p any) { fn(p.(SettingsChangedPayload)) })
}

func (bus *EventBus) PublishTodosUpdated(p TodosUpdatedPayload) {
	bus.send(EventTodosUpdated, p)
}

func (bus *EventBus) SubscribeTodosUpdated(fn func(TodosUpdatedPayload)) {
	bus.subscribe(EventTodosUpdated, func(p any) { fn(p.(TodosUpdatedPayload)) })
}
