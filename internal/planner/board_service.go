package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/colonyops/planboard/internal/core/board"
	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/filter"
	"github.com/colonyops/planboard/internal/core/todo"
)

// Lister provides snapshots of the todo collection.
type Lister interface {
	List(ctx context.Context) ([]todo.Item, error)
}

// View adjusts a single board build without touching persisted settings.
type View struct {
	Search *config.Search // nil uses the effective settings
	Now    time.Time      // zero uses the service clock
}

// BoardService runs the filter and generator pipeline over the current
// snapshot and publishes the result.
type BoardService struct {
	todos    Lister
	settings *SettingsService
	bus      *eventbus.EventBus
	log      zerolog.Logger
	now      func() time.Time

	group singleflight.Group
	kick  chan struct{}

	mu     sync.RWMutex
	latest *board.Board
}

// NewBoardService creates a BoardService.
func NewBoardService(todos Lister, settings *SettingsService, bus *eventbus.EventBus, log zerolog.Logger) *BoardService {
	return &BoardService{
		todos:    todos,
		settings: settings,
		bus:      bus,
		log:      log.With().Str("component", "board").Logger(),
		now:      time.Now,
		kick:     make(chan struct{}, 1),
	}
}

// Build generates a board for v from a fresh snapshot. It does not publish.
func (s *BoardService) Build(ctx context.Context, v View) (board.Board, error) {
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return board.Board{}, err
	}
	if v.Search != nil {
		settings.Search = *v.Search
	}

	now := v.Now
	if now.IsZero() {
		now = s.now()
	}

	items, err := s.todos.List(ctx)
	if err != nil {
		return board.Board{}, fmt.Errorf("snapshot todos: %w", err)
	}

	visible := filter.Apply(items, filter.New(settings.Search))
	return board.Generate(visible, settings, now), nil
}

// Recompute rebuilds the default board and publishes board.updated.
// Concurrent calls share one run.
func (s *BoardService) Recompute(ctx context.Context) (board.Board, error) {
	v, err, _ := s.group.Do("board", func() (any, error) {
		return s.recompute(ctx)
	})
	if err != nil {
		return board.Board{}, err
	}
	return v.(board.Board), nil
}

func (s *BoardService) recompute(ctx context.Context) (board.Board, error) {
	start := time.Now()
	b, err := s.Build(ctx, View{})
	if err != nil {
		s.log.Error().Err(err).Msg("board recompute failed")
		return board.Board{}, err
	}

	s.mu.Lock()
	s.latest = &b
	s.mu.Unlock()

	s.log.Debug().Dur("took", time.Since(start)).Int("buckets", len(b.All())).Msg("board recomputed")

	if s.bus != nil {
		s.bus.PublishBoardUpdated(eventbus.BoardUpdatedPayload{Board: b})
	}
	return b, nil
}

// Latest returns the last published board.
func (s *BoardService) Latest() (board.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return board.Board{}, false
	}
	return *s.latest, true
}

// Invalidate schedules a recompute. Requests made while one is pending
// collapse into it.
func (s *BoardService) Invalidate() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Subscribe wires recomputation to the events that change the board.
func (s *BoardService) Subscribe() {
	s.bus.SubscribeTodosUpdated(func(eventbus.TodosUpdatedPayload) { s.Invalidate() })
	s.bus.SubscribeSettingsChanged(func(eventbus.SettingsChangedPayload) { s.Invalidate() })
	s.bus.SubscribeConfigReloaded(func(p eventbus.ConfigReloadedPayload) {
		if p.Config != nil {
			s.settings.SetBase(p.Config.Planning)
		}
		s.Invalidate()
	})
}

// Run services Invalidate requests until ctx is cancelled. Each run starts
// after the request that triggered it, so no change is missed. Runs go
// through Recompute and share in-flight work with direct callers.
func (s *BoardService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			if _, err := s.Recompute(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn().Err(err).Msg("scheduled recompute failed")
			}
		}
	}
}
