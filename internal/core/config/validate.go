package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/planboard/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and glob syntax. The configPath argument specifies the config
// file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validatePlanning(),
		c.validateDisplay(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	p := c.Planning
	if p.WIPLimit.Enabled && p.WIPLimit.DailyLimit == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Planning",
			Item:     "wip_limit",
			Message:  "daily_limit is 0, every non-empty bucket will be flagged",
		})
	}

	if !p.ShowWeekends {
		warnings = append(warnings, ValidationWarning{
			Category: "Planning",
			Item:     "show_weekends",
			Message:  "weekend days get no daily bucket, todos due on them are only visible after the date passes",
		})
	}

	seen := map[string]string{}
	for role, name := range map[string]string{
		"due":       p.Attributes.Due,
		"completed": p.Attributes.Completed,
		"selected":  p.Attributes.Selected,
		"started":   p.Attributes.Started,
	} {
		if other, ok := seen[name]; ok {
			warnings = append(warnings, ValidationWarning{
				Category: "Planning",
				Item:     "attributes",
				Message:  fmt.Sprintf("%s and %s share the attribute name %q", other, role, name),
			})
			continue
		}
		seen[name] = role
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// validatePlanning checks planning values that Validate leaves alone.
func (c *Config) validatePlanning() error {
	var errs criterio.FieldErrorsBuilder

	if glob := c.Planning.Search.SourceGlob; glob != "" && !doublestar.ValidatePattern(glob) {
		errs = errs.Append("planning.search.source_glob", fmt.Errorf("invalid glob %q", glob))
	}

	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must not be negative"))
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must not exceed max_open_conns (%d)", c.Database.MaxOpenConns))
	}

	return errs.ToError()
}

// validateDisplay checks that the todo line format compiles.
func (c *Config) validateDisplay() error {
	if c.Display.TodoFormat == "" {
		return nil
	}
	if _, err := tmpl.Parse("todo_format", c.Display.TodoFormat); err != nil {
		return criterio.NewFieldErrors("display.todo_format", err)
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that the path is a directory or does not exist.
func isDirectoryOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
