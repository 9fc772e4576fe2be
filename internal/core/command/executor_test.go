package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/todo"
)

type call struct {
	op    string
	id    string
	name  string
	value string
}

// recordingPersistence records every call and fails on the configured op.
type recordingPersistence struct {
	calls  []call
	failOn string
	err    error
}

func (p *recordingPersistence) record(c call) error {
	p.calls = append(p.calls, c)
	if p.failOn != "" && p.failOn == c.op {
		return p.err
	}
	return nil
}

func (p *recordingPersistence) UpdateAttribute(_ context.Context, id, name, value string) error {
	return p.record(call{op: "update", id: id, name: name, value: value})
}

func (p *recordingPersistence) RemoveAttribute(_ context.Context, id, name string) error {
	return p.record(call{op: "remove", id: id, name: name})
}

func (p *recordingPersistence) UpdateStatus(_ context.Context, id string, status todo.Status, completedAttr string) error {
	return p.record(call{op: "status", id: id, name: completedAttr, value: string(status)})
}

func newTestExecutor(p Persistence) *Executor {
	e := NewExecutor(p, zerolog.Nop())
	e.now = func() time.Time { return now }
	return e
}

func TestExecutor_Execute_IssuesInOrder(t *testing.T) {
	p := &recordingPersistence{}
	e := newTestExecutor(p)

	s := config.DefaultSettings()
	s.TrackStartTime = true

	snapshot := []todo.Item{{ID: "a", Status: todo.StatusTodo}}
	res, err := e.Execute(context.Background(), snapshot,
		Move{ID: "a", Date: day("2024-06-10"), Status: todo.StatusInProgress}, s)
	require.NoError(t, err)

	assert.Equal(t, "a", res.TodoID)
	assert.Equal(t, "move", res.Command)
	assert.Len(t, res.Mutations, 3)
	assert.Equal(t, []call{
		{op: "update", id: "a", name: "due", value: "2024-06-10"},
		{op: "status", id: "a", name: "completed", value: "in-progress"},
		{op: "update", id: "a", name: "started", value: "2024-06-10"},
	}, p.calls)
}

func TestExecutor_Execute_StopsAtFirstFailure(t *testing.T) {
	writeErr := errors.New("disk full")
	p := &recordingPersistence{failOn: "update", err: writeErr}
	e := newTestExecutor(p)

	snapshot := []todo.Item{{ID: "a", Status: todo.StatusTodo}}
	_, err := e.Execute(context.Background(), snapshot,
		Move{ID: "a", Date: day("2024-06-10"), Status: todo.StatusComplete}, config.DefaultSettings())

	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, 0, mutErr.Index)
	assert.Equal(t, KindSetAttribute, mutErr.Mutation.Kind)

	assert.Len(t, p.calls, 1, "status write must not be attempted after the due date failed")
}

func TestExecutor_Execute_FailureMidChain(t *testing.T) {
	writeErr := errors.New("locked")
	p := &recordingPersistence{failOn: "status", err: writeErr}
	e := newTestExecutor(p)

	s := config.DefaultSettings()
	s.TrackStartTime = true

	snapshot := []todo.Item{{ID: "a", Status: todo.StatusTodo}}
	_, err := e.Execute(context.Background(), snapshot,
		Move{ID: "a", Date: day("2024-06-10"), Status: todo.StatusInProgress}, s)

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, 1, mutErr.Index)
	assert.Len(t, p.calls, 2)
}

func TestExecutor_Execute_UnknownTodo(t *testing.T) {
	p := &recordingPersistence{}
	e := newTestExecutor(p)

	_, err := e.Execute(context.Background(), []todo.Item{{ID: "a"}}, ToggleStatus{ID: "missing"}, config.DefaultSettings())

	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, p.calls)
}

func TestExecutor_Execute_ToggleUsesSnapshotStatus(t *testing.T) {
	p := &recordingPersistence{}
	e := newTestExecutor(p)

	snapshot := []todo.Item{{ID: "a", Status: todo.StatusCanceled}}
	_, err := e.Execute(context.Background(), snapshot, ToggleStatus{ID: "a"}, config.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []call{{op: "status", id: "a", name: "completed", value: "todo"}}, p.calls)
}

func TestExecutor_Execute_RemoveDate(t *testing.T) {
	p := &recordingPersistence{}
	e := newTestExecutor(p)

	snapshot := []todo.Item{{ID: "a", Attributes: map[string]string{"due": "2024-06-10"}}}
	_, err := e.Execute(context.Background(), snapshot, RemoveDate{ID: "a"}, config.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []call{{op: "remove", id: "a", name: "due"}}, p.calls)
}
