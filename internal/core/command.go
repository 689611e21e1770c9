package core

import "context"

type CmdRouter interface {
	Match(text string) (Command, bool)
	ListCommands() []Command
}

// Command is a reserved message that bypasses reply generation.
type Command interface {
	Name() string
	Trigger() string
	Description() string
	Execute(ctx context.Context, req CommandRequest, out Replier) error
}

type CommandRequest struct {
	ContextKey string
	AuthorName string
}
