package planner

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus/testbus"
	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/internal/data/db"
	"github.com/colonyops/planboard/internal/data/stores"
)

type testEnv struct {
	db       *db.DB
	bus      *testbus.Bus
	todos    *TodoService
	settings *SettingsService
	boards   *BoardService
	commands *CommandService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var (
		tb  = testbus.New(t)
		log = zerolog.Nop()
	)

	todos := NewTodoService(stores.NewTodoStore(database), tb.EventBus, log)
	settings := NewSettingsService(config.DefaultSettings(), stores.NewKVStore(database), tb.EventBus, log)
	boards := NewBoardService(todos, settings, tb.EventBus, log)

	return &testEnv{
		db:       database,
		bus:      tb,
		todos:    todos,
		settings: settings,
		boards:   boards,
		commands: NewCommandService(todos, boards, settings, tb.EventBus, log),
	}
}

func (e *testEnv) seed(t *testing.T, text string, attrs map[string]string) todo.Item {
	t.Helper()
	item := &todo.Item{Text: text, Attributes: attrs}
	require.NoError(t, e.todos.Create(context.Background(), item))
	return *item
}
