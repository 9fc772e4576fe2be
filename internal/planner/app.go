package planner

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/data/db"
	"github.com/colonyops/planboard/internal/data/stores"
)

// EventBufferSize is the bus buffer used by NewApp.
const EventBufferSize = 256

// App is the central entry point for all planboard operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Todos         *TodoService
	Board         *BoardService
	Commands      *CommandService
	Settings      *SettingsService
	Notifications *NotificationService

	Bus    *eventbus.EventBus
	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App and subscribes its services to the bus.
// Call Run to start event dispatch.
func NewApp(cfg *config.Config, database *db.DB, log zerolog.Logger) *App {
	bus := eventbus.New(EventBufferSize)
	if log.GetLevel() <= zerolog.DebugLevel {
		eventbus.RegisterDebugLogger(bus, log)
	}

	todos := NewTodoService(stores.NewTodoStore(database), bus, log)
	settings := NewSettingsService(cfg.Planning, stores.NewKVStore(database), bus, log)
	boards := NewBoardService(todos, settings, bus, log)
	notifications := NewNotificationService(stores.NewNotifyStore(database), log)

	boards.Subscribe()
	notifications.Subscribe(bus)
	eventbus.NewNotificationRouter(bus).Register()

	return &App{
		Todos:         todos,
		Board:         boards,
		Commands:      NewCommandService(todos, boards, settings, bus, log),
		Settings:      settings,
		Notifications: notifications,
		Bus:           bus,
		Config:        cfg,
		DB:            database,
	}
}

// Run dispatches events and services board recomputes until ctx is
// cancelled. Watchers run alongside and are closed on return.
func (a *App) Run(ctx context.Context, watchers ...*Watcher) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Bus.Start(ctx)
		return nil
	})
	g.Go(func() error {
		a.Board.Run(ctx)
		return nil
	})
	for _, w := range watchers {
		g.Go(func() error {
			defer func() { _ = w.Close() }()
			w.Run(ctx)
			return nil
		})
	}

	return g.Wait()
}
