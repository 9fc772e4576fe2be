package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/notify"
)

// NotificationService persists notification.published events and serves
// them back to `planboard notifications`.
type NotificationService struct {
	store notify.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(store notify.Store, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		store: store,
		log:   log.With().Str("component", "notifications").Logger(),
		now:   time.Now,
	}
}

// Subscribe saves every published notification.
func (s *NotificationService) Subscribe(bus *eventbus.EventBus) {
	bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		n := notify.Notification{
			Level:     p.Level,
			Kind:      string(p.Kind),
			TodoID:    p.TodoID,
			Message:   p.Message,
			CreatedAt: s.now(),
		}
		if _, err := s.store.Save(context.Background(), n); err != nil {
			s.log.Error().Err(err).Str("kind", n.Kind).Msg("failed to save notification")
			return
		}
		s.log.Debug().Str("level", string(n.Level)).Str("kind", n.Kind).Msg(n.Message)
	})
}

// List returns the newest notifications first. limit <= 0 returns all.
func (s *NotificationService) List(ctx context.Context, limit int) ([]notify.Notification, error) {
	return s.store.List(ctx, limit)
}

// Clear removes every notification.
func (s *NotificationService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Count returns the number of stored notifications.
func (s *NotificationService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
