package command

import (
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
)

func NewCommands(
	cfg *config.AppConfig,
	memory Clearer,
	persona core.PersonaSource,
	stop func(),
) []core.Command {
	return []core.Command{
		NewShutdownCommand(cfg.ShutdownCommand, stop),
		NewClearCommand(cfg.ClearCommand, memory, persona),
	}
}
