package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the item GUID and todo file path from the event context
// onto log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if path := GetFile(ctx); path != "" {
		e.Str("file", path)
	}

	if guid := GetGUID(ctx); guid != "" {
		e.Str("guid", guid)
	}
}
