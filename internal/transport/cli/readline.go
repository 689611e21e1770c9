package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/service/chat"
	"github.com/sandevgo/everebot/pkg/log"
)

// ParticipantID is the direct-conversation id used for the local console, so
// its history lives in dm-console.json.
const ParticipantID = "console"

type MessageHandler interface {
	Handle(ctx context.Context, in chat.Inbound, out chat.Replier) error
}

type ReadLine struct {
	handler MessageHandler
	author  string
	stop    func()
	rl      *readline.Instance
}

// NewReadLine creates a local console chat. stop is called when the user
// leaves so the rest of the process shuts down too.
func NewReadLine(handler MessageHandler, cfg *config.AppConfig, author string, stop func()) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          author + " > ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		handler: handler,
		author:  author,
		stop:    stop,
		rl:      rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	defer r.stop()

	logger := log.FromCtx(ctx)
	logger.Info().Msg("console chat started. Type 'exit' to quit.")

	out := &consoleReplier{w: r.rl.Stdout()}

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		// errors are already logged and echoed by the handler
		_ = r.handler.Handle(ctx, r.inbound(line), out)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func (r *ReadLine) inbound(text string) chat.Inbound {
	return chat.Inbound{
		Surface:    core.Surface{ParticipantID: ParticipantID},
		AuthorID:   ParticipantID,
		AuthorName: r.author,
		Text:       text,
	}
}

type consoleReplier struct {
	w io.Writer
}

func (c *consoleReplier) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.w, "%s\n", text)
	return err
}

func (c *consoleReplier) Typing(context.Context) error {
	return nil
}
