// Package logging provides component loggers and context fields for convtodo.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger derived from the global logger, tagged with a
// component name under "cmp" and carrying the context hook so events logged
// with Ctx pick up guid and file fields.
func Component(name string) zerolog.Logger {
	return log.Logger.Hook(ContextHook{}).With().Str("cmp", name).Logger()
}
