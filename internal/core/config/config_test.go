package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "/tmp/data")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/data", cfg.DataDir)
	assert.Equal(t, DefaultSettings(), cfg.Planning)
	assert.Equal(t, "due", cfg.Planning.Attributes.Due)
	assert.True(t, cfg.Planning.ShowWeekends)
	assert.Equal(t, 1, cfg.Planning.FirstWeekday)
	assert.Equal(t, filepath.Join("/tmp/data", "planboard.db"), cfg.DatabaseFile())
	assert.Equal(t, "tokyo-night", cfg.Display.Theme)
	assert.False(t, cfg.Display.NerdFonts)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg.Planning)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
planning:
  search:
    phrase: report
    fuzzy: true
  hide_empty: true
  wip_limit:
    enabled: true
    daily_limit: 3
  attributes:
    due: scheduled
  first_weekday: 7
  show_weekends: false
database:
  busy_timeout: 100
`)

	cfg, err := Load(path, "/tmp/data")
	require.NoError(t, err)

	p := cfg.Planning
	assert.Equal(t, "report", p.Search.Phrase)
	assert.True(t, p.Search.Fuzzy)
	assert.True(t, p.HideEmpty)
	assert.Equal(t, WIPLimit{Enabled: true, DailyLimit: 3}, p.WIPLimit)
	assert.Equal(t, "scheduled", p.Attributes.Due)
	assert.Equal(t, "completed", p.Attributes.Completed, "unset attributes keep defaults")
	assert.Equal(t, 7, p.FirstWeekday)
	assert.False(t, p.ShowWeekends)
	assert.Equal(t, 100, cfg.Database.BusyTimeout)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad yaml",
			content: "planning: [",
			wantErr: "parse config file",
		},
		{
			name:    "weekday out of range",
			content: "planning:\n  first_weekday: 8\n",
			wantErr: "first_weekday must be between 1 and 7",
		},
		{
			name:    "unknown theme",
			content: "display:\n  theme: neon\n",
			wantErr: "display.theme",
		},
		{
			name:    "negative limit",
			content: "planning:\n  wip_limit:\n    daily_limit: -1\n",
			wantErr: "daily_limit must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), "/tmp/data")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestSettings_GetSet(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Set("hide_empty", "true"))
	require.NoError(t, s.Set("wip_limit.daily_limit", "7"))
	require.NoError(t, s.Set("search.phrase", "weekly review"))
	require.NoError(t, s.Set("attributes.selected", "pinned"))

	assert.True(t, s.HideEmpty)
	assert.Equal(t, 7, s.WIPLimit.DailyLimit)
	assert.Equal(t, "weekly review", s.Search.Phrase)
	assert.Equal(t, "pinned", s.Attributes.Selected)

	v, err := s.Get("wip_limit.daily_limit")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestSettings_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"first_weekday", "0"},
		{"first_weekday", "monday"},
		{"wip_limit.daily_limit", "-2"},
		{"attributes.due", "  "},
		{"show_weekends", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := DefaultSettings()
			before := s
			assert.Error(t, s.Set(tt.key, tt.value))
			assert.Equal(t, before, s, "settings must be unchanged on error")
		})
	}
}

func TestSettings_UnknownKey(t *testing.T) {
	s := DefaultSettings()
	assert.ErrorIs(t, s.Set("nope", "1"), ErrUnknownSetting)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestSettingKeys_AllAddressable(t *testing.T) {
	s := DefaultSettings()
	keys := SettingKeys()
	assert.Len(t, keys, 13)
	for _, k := range keys {
		_, err := s.Get(k)
		assert.NoError(t, err, k)
	}
}
