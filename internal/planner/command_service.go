package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/command"
	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/logging"
	"github.com/colonyops/planboard/internal/core/todo"
)

// ErrUnknownBucket is returned by MoveTo for a key not on the board.
var ErrUnknownBucket = errors.New("unknown bucket")

// Preview is the outcome of planning a command without executing it.
type Preview struct {
	Command   string             `json:"command"`
	Before    todo.Item          `json:"before"`
	After     todo.Item          `json:"after"`
	Mutations []command.Mutation `json:"mutations"`
}

// CommandService plans commands against the current snapshot and executes
// them through the todo service.
type CommandService struct {
	todos    *TodoService
	boards   *BoardService
	settings *SettingsService
	exec     *command.Executor
	bus      *eventbus.EventBus
	log      zerolog.Logger
	now      func() time.Time
}

// NewCommandService creates a CommandService.
func NewCommandService(todos *TodoService, boards *BoardService, settings *SettingsService, bus *eventbus.EventBus, log zerolog.Logger) *CommandService {
	log = logging.WithContextHook(log)
	return &CommandService{
		todos:    todos,
		boards:   boards,
		settings: settings,
		exec:     command.NewExecutor(todos, log),
		bus:      bus,
		log:      log.With().Str("component", "commands").Logger(),
		now:      time.Now,
	}
}

// Dispatch executes cmd. Mutations are issued one at a time in plan order;
// the first failure stops the command. The outcome is published as
// command.applied or command.failed.
func (s *CommandService) Dispatch(ctx context.Context, cmd command.Command) (command.Result, error) {
	commandID := uuid.NewString()
	ctx = logging.WithCommandID(ctx, commandID)
	ctx = logging.WithTodoID(ctx, cmd.TodoID())

	snapshot, err := s.todos.List(ctx)
	if err != nil {
		return command.Result{}, fmt.Errorf("snapshot todos: %w", err)
	}

	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return command.Result{}, err
	}

	res, err := s.exec.Execute(ctx, snapshot, cmd, settings)
	if err != nil {
		if s.bus != nil {
			s.bus.PublishCommandFailed(eventbus.CommandFailedPayload{
				CommandID: commandID,
				Command:   cmd.Name(),
				TodoID:    cmd.TodoID(),
				Err:       err,
			})
		}
		return res, err
	}

	s.log.Info().Ctx(ctx).Str("command", cmd.Name()).Int("mutations", len(res.Mutations)).Msg("command dispatched")
	if s.bus != nil {
		s.bus.PublishCommandApplied(eventbus.CommandAppliedPayload{CommandID: commandID, Result: res})
	}
	return res, nil
}

// Preview plans cmd and applies it to a copy of the todo. Nothing is written.
func (s *CommandService) Preview(ctx context.Context, cmd command.Command) (Preview, error) {
	item, err := s.todos.Get(ctx, cmd.TodoID())
	if err != nil {
		return Preview{}, fmt.Errorf("%s %q: %w", cmd.Name(), cmd.TodoID(), err)
	}

	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return Preview{}, err
	}

	now := s.now()
	muts := cmd.Plan(item, settings, now)
	return Preview{
		Command:   cmd.Name(),
		Before:    item,
		After:     command.Preview(item, muts, now),
		Mutations: muts,
	}, nil
}

// Resolve returns the command that drops id onto the bucket with key.
func (s *CommandService) Resolve(ctx context.Context, id, key string) (command.Command, error) {
	b, err := s.boards.Build(ctx, View{Search: &config.Search{}})
	if err != nil {
		return nil, err
	}

	bucket, ok := b.Find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, key)
	}
	if bucket.Drop == nil {
		return nil, fmt.Errorf("bucket %q: %w", key, command.ErrNoDropTarget)
	}
	return bucket.Drop.Command(id), nil
}

// MoveTo drops id onto the bucket with key.
func (s *CommandService) MoveTo(ctx context.Context, id, key string) (command.Result, error) {
	cmd, err := s.Resolve(ctx, id, key)
	if err != nil {
		return command.Result{}, err
	}
	return s.Dispatch(ctx, cmd)
}
