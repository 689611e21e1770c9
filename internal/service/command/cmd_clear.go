package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/everebot/internal/core"
)

const (
	clearStarted = "Clearing chat history for this channel..."
	clearDone    = "Chat history for this channel cleared successfully."
)

type Clearer interface {
	Clear(ctx context.Context, key string, seed []core.Record) error
}

type ClearCommand struct {
	trigger string
	memory  Clearer
	persona core.PersonaSource
}

func NewClearCommand(trigger string, memory Clearer, persona core.PersonaSource) *ClearCommand {
	return &ClearCommand{
		trigger: trigger,
		memory:  memory,
		persona: persona,
	}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Trigger() string {
	return c.trigger
}

func (c *ClearCommand) Description() string {
	return "Forget this channel's history"
}

// Execute replaces the history with the persona greeting addressed to the
// sender. The file is removed and only comes back on the next persisted reply.
func (c *ClearCommand) Execute(ctx context.Context, req core.CommandRequest, out core.Replier) error {
	if err := out.Send(ctx, clearStarted); err != nil {
		return err
	}

	seed := c.persona.Current().Seed(req.AuthorName)
	if err := c.memory.Clear(ctx, req.ContextKey, seed); err != nil {
		return fmt.Errorf("clear %s: %w", req.ContextKey, err)
	}

	return out.Send(ctx, clearDone)
}
