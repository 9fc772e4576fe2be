package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownSetting is returned when a settings key does not exist.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings is the planning configuration read by the board generator and
// the command engine. It is passed explicitly on every invocation.
type Settings struct {
	Search         Search     `yaml:"search" json:"search"`
	HideEmpty      bool       `yaml:"hide_empty" json:"hide_empty"`
	WIPLimit       WIPLimit   `yaml:"wip_limit" json:"wip_limit"`
	Attributes     Attributes `yaml:"attributes" json:"attributes"`
	FirstWeekday   int        `yaml:"first_weekday" json:"first_weekday"` // ISO weekday, 1 = Monday
	ShowWeekends   bool       `yaml:"show_weekends" json:"show_weekends"`
	TrackStartTime bool       `yaml:"track_start_time" json:"track_start_time"`
}

// Search holds the text filter applied before bucketing.
type Search struct {
	Phrase     string `yaml:"phrase" json:"phrase"`
	Fuzzy      bool   `yaml:"fuzzy" json:"fuzzy"`
	SourceGlob string `yaml:"source_glob" json:"source_glob,omitempty"`
}

// WIPLimit caps the number of todos per bucket before it is flagged.
type WIPLimit struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	DailyLimit int  `yaml:"daily_limit" json:"daily_limit"`
}

// Attributes binds the roles the board understands to attribute names.
type Attributes struct {
	Due       string `yaml:"due" json:"due"`
	Completed string `yaml:"completed" json:"completed"`
	Selected  string `yaml:"selected" json:"selected"`
	Started   string `yaml:"started" json:"started"`
}

// DefaultSettings returns the built-in planning settings.
func DefaultSettings() Settings {
	return Settings{
		WIPLimit: WIPLimit{DailyLimit: 5},
		Attributes: Attributes{
			Due:       "due",
			Completed: "completed",
			Selected:  "selected",
			Started:   "started",
		},
		FirstWeekday: 1,
		ShowWeekends: true,
	}
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if s.Attributes.Due == "" {
		s.Attributes.Due = defaults.Attributes.Due
	}
	if s.Attributes.Completed == "" {
		s.Attributes.Completed = defaults.Attributes.Completed
	}
	if s.Attributes.Selected == "" {
		s.Attributes.Selected = defaults.Attributes.Selected
	}
	if s.Attributes.Started == "" {
		s.Attributes.Started = defaults.Attributes.Started
	}
	if s.FirstWeekday == 0 {
		s.FirstWeekday = defaults.FirstWeekday
	}
}

// Validate checks the invariants the board relies on.
func (s Settings) Validate() error {
	for name, v := range map[string]string{
		"attributes.due":       s.Attributes.Due,
		"attributes.completed": s.Attributes.Completed,
		"attributes.selected":  s.Attributes.Selected,
		"attributes.started":   s.Attributes.Started,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	if s.WIPLimit.DailyLimit < 0 {
		return fmt.Errorf("wip_limit.daily_limit must not be negative")
	}

	if s.FirstWeekday < 1 || s.FirstWeekday > 7 {
		return fmt.Errorf("first_weekday must be between 1 and 7, got %d", s.FirstWeekday)
	}

	return nil
}

// settingField describes one addressable key of Settings.
type settingField struct {
	get func(s *Settings) string
	set func(s *Settings, v string) error
}

func stringField(ptr func(s *Settings) *string) settingField {
	return settingField{
		get: func(s *Settings) string { return *ptr(s) },
		set: func(s *Settings, v string) error { *ptr(s) = v; return nil },
	}
}

func boolField(ptr func(s *Settings) *bool) settingField {
	return settingField{
		get: func(s *Settings) string { return strconv.FormatBool(*ptr(s)) },
		set: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*ptr(s) = b
			return nil
		},
	}
}

func intField(ptr func(s *Settings) *int) settingField {
	return settingField{
		get: func(s *Settings) string { return strconv.Itoa(*ptr(s)) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*ptr(s) = n
			return nil
		},
	}
}

var settingFields = map[string]settingField{
	"search.phrase":         stringField(func(s *Settings) *string { return &s.Search.Phrase }),
	"search.fuzzy":          boolField(func(s *Settings) *bool { return &s.Search.Fuzzy }),
	"search.source_glob":    stringField(func(s *Settings) *string { return &s.Search.SourceGlob }),
	"hide_empty":            boolField(func(s *Settings) *bool { return &s.HideEmpty }),
	"wip_limit.enabled":     boolField(func(s *Settings) *bool { return &s.WIPLimit.Enabled }),
	"wip_limit.daily_limit": intField(func(s *Settings) *int { return &s.WIPLimit.DailyLimit }),
	"attributes.due":        stringField(func(s *Settings) *string { return &s.Attributes.Due }),
	"attributes.completed":  stringField(func(s *Settings) *string { return &s.Attributes.Completed }),
	"attributes.selected":   stringField(func(s *Settings) *string { return &s.Attributes.Selected }),
	"attributes.started":    stringField(func(s *Settings) *string { return &s.Attributes.Started }),
	"first_weekday":         intField(func(s *Settings) *int { return &s.FirstWeekday }),
	"show_weekends":         boolField(func(s *Settings) *bool { return &s.ShowWeekends }),
	"track_start_time":      boolField(func(s *Settings) *bool { return &s.TrackStartTime }),
}

// SettingKeys returns every addressable settings key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a settings key.
func (s *Settings) Get(key string) (string, error) {
	f, ok := settingFields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return f.get(s), nil
}

// Set parses and assigns a settings key. The receiver is left untouched and
// an error returned when the result would be invalid.
func (s *Settings) Set(key, value string) error {
	f, ok := settingFields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	next := *s
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*s = next
	return nil
}
