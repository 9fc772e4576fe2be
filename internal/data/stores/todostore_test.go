package stores

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/planboard/internal/core/todo"
	"github.com/colonyops/planboard/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTodoStore(t *testing.T, now time.Time) *TodoStore {
	t.Helper()
	store := NewTodoStore(openTestDB(t))
	store.now = func() time.Time { return now }
	return store
}

var storeNow = time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)

func TestTodoStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		item := todo.Item{
			ID:         "test-id-1",
			Status:     todo.StatusDelegated,
			Text:       "Chase quarterly numbers",
			Source:     "notes/work.md",
			Attributes: map[string]string{"due": "2024-06-12", "selected": "true"},
		}
		require.NoError(t, store.Create(ctx, &item))

		got, err := store.Get(ctx, "test-id-1")
		require.NoError(t, err)
		assert.Equal(t, "test-id-1", got.ID)
		assert.Equal(t, todo.StatusDelegated, got.Status)
		assert.Equal(t, "Chase quarterly numbers", got.Text)
		assert.Equal(t, "notes/work.md", got.Source)
		assert.Equal(t, map[string]string{"due": "2024-06-12", "selected": "true"}, got.Attributes)
		assert.True(t, got.CreatedAt.Equal(storeNow))
	})

	t.Run("create generates ID and status when empty", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		item := todo.Item{Text: "Custom task"}
		require.NoError(t, store.Create(ctx, &item))
		assert.Len(t, item.ID, 8)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, item.ID, items[0].ID)
		assert.Equal(t, todo.StatusTodo, items[0].Status)
		assert.Nil(t, items[0].Attributes)
	})

	t.Run("create rejects invalid status", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		err := store.Create(ctx, &todo.Item{Text: "x", Status: "someday"})
		assert.ErrorIs(t, err, todo.ErrInvalidStatus)
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		require.NoError(t, store.Create(ctx, &todo.Item{ID: "dup", Text: "a"}))
		err := store.Create(ctx, &todo.Item{ID: "dup", Text: "b"})
		assert.ErrorIs(t, err, todo.ErrDuplicate)
	})

	t.Run("get not found", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		_, err := store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("list orders by creation and attaches attributes", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		for i, id := range []string{"c", "a", "b"} {
			require.NoError(t, store.Create(ctx, &todo.Item{
				ID:         id,
				Text:       id,
				CreatedAt:  storeNow.Add(time.Duration(i) * time.Minute),
				Attributes: map[string]string{"due": "2024-06-11"},
			}))
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "c", items[0].ID)
		assert.Equal(t, "a", items[1].ID)
		assert.Equal(t, "b", items[2].ID)
		for _, it := range items {
			assert.Equal(t, "2024-06-11", it.Attributes["due"])
		}
	})

	t.Run("list empty", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("update and remove attribute", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)
		require.NoError(t, store.Create(ctx, &todo.Item{ID: "x", Text: "x"}))

		require.NoError(t, store.UpdateAttribute(ctx, "x", "due", "2024-06-11"))
		require.NoError(t, store.UpdateAttribute(ctx, "x", "due", "2024-06-12"))

		got, err := store.Get(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, "2024-06-12", got.Attributes["due"])

		require.NoError(t, store.RemoveAttribute(ctx, "x", "due"))
		require.NoError(t, store.RemoveAttribute(ctx, "x", "due"), "removing an absent attribute is fine")

		got, err = store.Get(ctx, "x")
		require.NoError(t, err)
		assert.False(t, got.HasAttribute("due"))
	})

	t.Run("attribute writes on missing item", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)

		assert.ErrorIs(t, store.UpdateAttribute(ctx, "missing", "due", "2024-06-11"), todo.ErrNotFound)
		assert.ErrorIs(t, store.RemoveAttribute(ctx, "missing", "due"), todo.ErrNotFound)
		assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", todo.StatusComplete, "completed"), todo.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newTestTodoStore(t, storeNow)
		require.NoError(t, store.Create(ctx, &todo.Item{ID: "x", Text: "x", Attributes: map[string]string{"due": "2024-06-11"}}))

		require.NoError(t, store.Delete(ctx, "x"))
		assert.ErrorIs(t, store.Delete(ctx, "x"), todo.ErrNotFound)

		_, err := store.Get(ctx, "x")
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})
}

func TestTodoStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		from      todo.Status
		attrs     map[string]string
		to        todo.Status
		wantAttrs map[string]string
	}{
		{
			name:      "complete stamps completed date",
			from:      todo.StatusTodo,
			to:        todo.StatusComplete,
			wantAttrs: map[string]string{"completed": "2024-06-10"},
		},
		{
			name:      "reopen clears completed date",
			from:      todo.StatusComplete,
			attrs:     map[string]string{"completed": "2024-06-01", "due": "2024-06-01"},
			to:        todo.StatusTodo,
			wantAttrs: map[string]string{"due": "2024-06-01"},
		},
		{
			name:      "done to done keeps completed date",
			from:      todo.StatusComplete,
			attrs:     map[string]string{"completed": "2024-06-01"},
			to:        todo.StatusCanceled,
			wantAttrs: map[string]string{"completed": "2024-06-01"},
		},
		{
			name: "open to open leaves attributes alone",
			from: todo.StatusTodo,
			to:   todo.StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestTodoStore(t, storeNow)
			require.NoError(t, store.Create(ctx, &todo.Item{ID: "x", Text: "x", Status: tt.from, Attributes: tt.attrs}))

			require.NoError(t, store.UpdateStatus(ctx, "x", tt.to, "completed"))

			got, err := store.Get(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			assert.Equal(t, tt.wantAttrs, got.Attributes)
			assert.True(t, got.UpdatedAt.Equal(storeNow))
		})
	}
}

func TestTodoStore_UpdateStatus_InvalidStatus(t *testing.T) {
	store := newTestTodoStore(t, storeNow)
	require.NoError(t, store.Create(context.Background(), &todo.Item{ID: "x", Text: "x"}))

	err := store.UpdateStatus(context.Background(), "x", "archived", "completed")
	assert.ErrorIs(t, err, todo.ErrInvalidStatus)
}

func TestTodoStore_RetriesWhileBusy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = 0

	holder, err := db.Open(dir, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = holder.Close() })

	writer, err := db.Open(dir, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	tx, err := holder.Conn().BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "CREATE TABLE lock_holder (x INTEGER)")
	require.NoError(t, err)

	_, err = writer.Conn().ExecContext(ctx, "CREATE TABLE blocked (x INTEGER)")
	require.Error(t, err)
	assert.True(t, IsBusyError(err), "got %v", err)

	store := NewTodoStore(writer)
	done := make(chan error, 1)
	go func() { done <- store.Create(ctx, &todo.Item{Text: "after the lock"}) }()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, tx.Rollback())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("create did not finish after the lock was released")
	}

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "after the lock", items[0].Text)
}

func TestRetryBusy_StopsOnOtherErrors(t *testing.T) {
	calls := 0
	err := retryBusy(context.Background(), func() error {
		calls++
		return todo.ErrNotFound
	})
	require.ErrorIs(t, err, todo.ErrNotFound)
	assert.Equal(t, 1, calls)
}
