package srv

import "context"

// Cleanup adapts a plain function into a Service that only acts on
// shutdown, e.g. flushing stores after the transports have stopped.
type Cleanup func() error

func (Cleanup) Start(context.Context) error { return nil }

func (c Cleanup) Shutdown(context.Context) error {
	if c == nil {
		return nil
	}
	return c()
}

func NewCleanup(fn func() error) Service {
	return Cleanup(fn)
}
