// Package logging holds zerolog helpers shared by the planboard services.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component derives a logger from the global logger tagged with a
// component name, matching the loggers the planner services build.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithContextHook returns l with ContextHook attached so events logged via
// Ctx(ctx) carry the command correlation fields.
func WithContextHook(l zerolog.Logger) zerolog.Logger {
	return l.Hook(ContextHook{})
}
