package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/eventbus"
	"github.com/colonyops/planboard/internal/core/kv"
)

const settingsNamespace = "settings"

// SettingValue is one row of `planboard settings list`.
type SettingValue struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Overridden bool   `json:"overridden"`
}

// SettingsService is the settings store collaborator. The effective settings
// are the config file's planning block overlaid with persisted overrides.
// Every Set persists immediately.
type SettingsService struct {
	overrides *kv.TypedKV[string]
	bus       *eventbus.EventBus
	log       zerolog.Logger

	mu   sync.RWMutex
	base config.Settings
}

// NewSettingsService creates a SettingsService over the config defaults.
func NewSettingsService(base config.Settings, store kv.KV, bus *eventbus.EventBus, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		overrides: kv.Scoped[string](store, settingsNamespace),
		bus:       bus,
		log:       log.With().Str("component", "settings").Logger(),
		base:      base,
	}
}

// SetBase replaces the config file layer, e.g. after a config reload.
func (s *SettingsService) SetBase(base config.Settings) {
	s.mu.Lock()
	s.base = base
	s.mu.Unlock()
}

// Effective returns the settings the board runs with. Overrides that no
// longer validate against the current base are skipped with a warning.
func (s *SettingsService) Effective(ctx context.Context) (config.Settings, error) {
	s.mu.RLock()
	out := s.base
	s.mu.RUnlock()

	overrides, err := s.overrides.All(ctx)
	if err != nil {
		return out, fmt.Errorf("load setting overrides: %w", err)
	}

	for _, key := range config.SettingKeys() {
		v, ok := overrides[key]
		if !ok {
			continue
		}
		if err := out.Set(key, v); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("ignoring invalid setting override")
		}
	}

	return out, nil
}

// Get returns the effective value of key.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	eff, err := s.Effective(ctx)
	if err != nil {
		return "", err
	}
	return eff.Get(key)
}

// List returns every key with its effective value.
func (s *SettingsService) List(ctx context.Context) ([]SettingValue, error) {
	eff, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := s.overrides.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list setting overrides: %w", err)
	}
	overridden := make(map[string]bool, len(keys))
	for _, k := range keys {
		overridden[k] = true
	}

	out := make([]SettingValue, 0, len(config.SettingKeys()))
	for _, key := range config.SettingKeys() {
		v, _ := eff.Get(key)
		out = append(out, SettingValue{Key: key, Value: v, Overridden: overridden[key]})
	}
	return out, nil
}

// Set validates value against the effective settings, persists it and
// publishes settings.changed.
func (s *SettingsService) Set(ctx context.Context, key, value string) (config.Settings, error) {
	eff, err := s.Effective(ctx)
	if err != nil {
		return eff, err
	}

	if err := eff.Set(key, value); err != nil {
		return eff, err
	}

	normalized, _ := eff.Get(key)
	if err := s.overrides.Set(ctx, key, normalized); err != nil {
		return eff, fmt.Errorf("persist setting %s: %w", key, err)
	}

	s.log.Info().Str("key", key).Str("value", normalized).Msg("setting changed")
	s.publish(key, normalized, eff)
	return eff, nil
}

// Reset drops the override for key, or every override when key is empty.
func (s *SettingsService) Reset(ctx context.Context, key string) (config.Settings, error) {
	keys := []string{key}
	if key == "" {
		all, err := s.overrides.Keys(ctx)
		if err != nil {
			return config.Settings{}, fmt.Errorf("list setting overrides: %w", err)
		}
		keys = all
	} else if _, err := (&config.Settings{}).Get(key); errors.Is(err, config.ErrUnknownSetting) {
		return config.Settings{}, err
	}

	for _, k := range keys {
		if err := s.overrides.Delete(ctx, k); err != nil {
			return config.Settings{}, fmt.Errorf("reset setting %s: %w", k, err)
		}
	}

	eff, err := s.Effective(ctx)
	if err != nil {
		return eff, err
	}

	s.log.Info().Str("key", key).Msg("setting reset")
	s.publish(key, "", eff)
	return eff, nil
}

func (s *SettingsService) publish(key, value string, eff config.Settings) {
	if s.bus == nil {
		return
	}
	s.bus.PublishSettingsChanged(eventbus.SettingsChangedPayload{Key: key, Value: value, Settings: eff})
}
