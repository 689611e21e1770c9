package core

import "context"

// Generator turns a composed prompt into reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Replier delivers text back to the surface a message came from.
type Replier interface {
	Send(ctx context.Context, text string) error
	Typing(ctx context.Context) error
}
