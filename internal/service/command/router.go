package command

import (
	"strings"

	"github.com/sandevgo/everebot/internal/core"
)

// Router recognises reserved commands. A message is a command only when its
// whole text equals the trigger, ignoring case.
type Router struct {
	commands map[string]core.Command
	order    []core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		trigger := strings.ToLower(cmd.Trigger())
		if trigger == "" {
			continue
		}
		if _, dup := c.commands[trigger]; dup {
			continue
		}
		c.commands[trigger] = cmd
		c.order = append(c.order, cmd)
	}
	return c
}

func (c *Router) Match(text string) (core.Command, bool) {
	cmd, ok := c.commands[strings.ToLower(text)]
	return cmd, ok
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, len(c.order))
	copy(res, c.order)
	return res
}
