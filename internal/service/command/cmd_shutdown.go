package command

import (
	"context"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
)

const shutdownAck = "Shutting down..."

type ShutdownCommand struct {
	trigger string
	stop    func()
}

// NewShutdownCommand returns the command that stops the whole process. stop
// is normally the cancel function of the signal context.
func NewShutdownCommand(trigger string, stop func()) *ShutdownCommand {
	return &ShutdownCommand{
		trigger: trigger,
		stop:    stop,
	}
}

func (c *ShutdownCommand) Name() string {
	return "shutdown"
}

func (c *ShutdownCommand) Trigger() string {
	return c.trigger
}

func (c *ShutdownCommand) Description() string {
	return "Stop the bot"
}

func (c *ShutdownCommand) Execute(ctx context.Context, req core.CommandRequest, out core.Replier) error {
	log.FromCtx(ctx).Warn().
		Str("author", req.AuthorName).
		Str("context_key", req.ContextKey).
		Msg("shutdown requested from chat")

	err := out.Send(ctx, shutdownAck)
	c.stop()
	return err
}
