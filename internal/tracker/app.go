package tracker

import (
	"github.com/colonyops/convtodo/internal/core/config"
	"github.com/rs/zerolog"
)

// App is the central entry point for convtodo operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Todos  *TodoService
	Config *config.Config
}

// NewApp constructs an App for the todo file at todoPath.
func NewApp(cfg *config.Config, todoPath string, log zerolog.Logger) *App {
	return &App{
		Todos:  NewTodoService(todoPath, cfg.DoneInfo, log),
		Config: cfg,
	}
}
