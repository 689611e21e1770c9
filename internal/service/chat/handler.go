package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/observability"
	"github.com/sandevgo/everebot/internal/service/prompt"
	"github.com/sandevgo/everebot/pkg/log"
)

// ErrorNotice is what a conversation sees when its message could not be answered.
const ErrorNotice = "An unexpected error occurred. Check the bot's console for details."

const defaultTypingInterval = 4 * time.Second

type Replier = core.Replier

// Inbound is a message as a transport hands it over.
type Inbound struct {
	Surface    core.Surface
	AuthorID   string
	AuthorName string
	Text       string
	FromSelf   bool
}

// Store is the part of the memory store the handler drives.
type Store interface {
	Lock(key string) func()
	Load(ctx context.Context, key string) ([]core.Record, error)
	Append(key string, r core.Record) error
	Persist(ctx context.Context, key string) error
}

type Handler struct {
	router    core.CmdRouter
	memory    Store
	persona   core.PersonaSource
	generator core.Generator
	metrics   *observability.Metrics

	contextSize    int
	typingInterval time.Duration
	now            func() time.Time
}

type Option func(*Handler)

// WithClock replaces time.Now as the source of the prompt timestamp.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func WithTypingInterval(d time.Duration) Option {
	return func(h *Handler) { h.typingInterval = d }
}

// WithContextSize enables a warning when a prompt is estimated to exceed the
// generator's context window.
func WithContextSize(tokens int) Option {
	return func(h *Handler) { h.contextSize = tokens }
}

func NewHandler(
	memory Store,
	router core.CmdRouter,
	persona core.PersonaSource,
	generator core.Generator,
	metrics *observability.Metrics,
	opts ...Option,
) *Handler {
	if metrics == nil {
		metrics = observability.NewMetrics(observability.Namespace)
	}
	h := &Handler{
		router:         router,
		memory:         memory,
		persona:        persona,
		generator:      generator,
		metrics:        metrics,
		typingInterval: defaultTypingInterval,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle answers one inbound message. Messages for the same conversation are
// handled one at a time. Failures are logged, reported to out as ErrorNotice
// and returned; they never affect other conversations.
func (h *Handler) Handle(ctx context.Context, in Inbound, out Replier) error {
	if in.FromSelf {
		h.metrics.Messages.WithLabelValues("ignored").Inc()
		return nil
	}

	key := in.Surface.Key()
	ctx = log.WithFields(ctx, "request_id", uuid.NewString(), "context_key", key)
	logger := log.FromCtx(ctx)

	h.metrics.InFlight.Inc()
	defer h.metrics.InFlight.Dec()

	unlock := h.memory.Lock(key)
	defer unlock()

	if cmd, ok := h.router.Match(in.Text); ok {
		logger.Info().Str("command", cmd.Name()).Str("author", in.AuthorName).Msg("running command")
		h.metrics.Commands.WithLabelValues(cmd.Name()).Inc()

		req := core.CommandRequest{ContextKey: key, AuthorName: in.AuthorName}
		if err := cmd.Execute(ctx, req, out); err != nil {
			return h.fail(ctx, out, fmt.Errorf("command %s: %w", cmd.Name(), err))
		}
		h.metrics.Messages.WithLabelValues("command").Inc()
		return nil
	}

	if err := h.reply(ctx, key, in, out); err != nil {
		return h.fail(ctx, out, err)
	}
	h.metrics.Messages.WithLabelValues("replied").Inc()
	return nil
}

func (h *Handler) reply(ctx context.Context, key string, in Inbound, out Replier) error {
	logger := log.FromCtx(ctx)

	if _, err := h.memory.Load(ctx, key); err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	record := core.NewRecord(in.AuthorName, in.Text)
	if in.AuthorID != "" {
		record = record.WithExtra("author_id", in.AuthorID)
	}
	if err := h.memory.Append(key, record); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if err := h.memory.Persist(ctx, key); err != nil {
		return err
	}

	history, err := h.memory.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	persona := h.persona.Current()
	text := prompt.Compose(prompt.Input{
		Persona:    persona,
		SpeakingTo: in.AuthorName,
		Now:        h.now(),
		History:    history,
	})
	if h.contextSize > 0 {
		go h.checkPromptSize(ctx, text)
	}

	stopTyping := h.keepTyping(ctx, out)
	start := time.Now()
	answer, err := h.generator.Generate(ctx, text)
	stopTyping()
	h.metrics.ObserveGenerator(time.Since(start), err)
	if err != nil {
		return err
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Int("reply_bytes", len(answer)).Msg("reply generated")

	if answer == "" {
		logger.Warn().Msg("generator returned an empty reply, nothing to send")
		return nil
	}

	if err := h.memory.Append(key, core.NewRecord(persona.Name, answer)); err != nil {
		return fmt.Errorf("append reply: %w", err)
	}
	if err := h.memory.Persist(ctx, key); err != nil {
		return err
	}

	if err := out.Send(ctx, answer); err != nil {
		return fmt.Errorf("deliver reply: %w", err)
	}
	return nil
}

func (h *Handler) fail(ctx context.Context, out Replier, err error) error {
	logger := log.FromCtx(ctx)
	logger.Error().Err(err).Msg("failed to handle message")
	h.metrics.Messages.WithLabelValues("failed").Inc()

	if sendErr := out.Send(ctx, ErrorNotice); sendErr != nil {
		logger.Error().Err(sendErr).Msg("failed to send error notice")
	}
	return err
}

// checkPromptSize runs off the reply path: the tokenizer is fetched on first use.
func (h *Handler) checkPromptSize(ctx context.Context, text string) {
	logger := log.FromCtx(ctx)

	tokens, err := prompt.CountTokens(text)
	if err != nil {
		logger.Debug().Err(err).Msg("token estimate unavailable")
		return
	}
	h.metrics.PromptTokens.Observe(float64(tokens))

	if tokens > h.contextSize {
		logger.Warn().
			Int("tokens", tokens).
			Int("context_size", h.contextSize).
			Msg("prompt is larger than the generator context")
	}
}

// keepTyping shows the typing indicator until the returned function is called.
// Platforms expire the indicator after a few seconds, so it is refreshed.
func (h *Handler) keepTyping(ctx context.Context, out Replier) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.typingInterval)
		defer ticker.Stop()

		for {
			if err := out.Typing(ctx); err != nil && ctx.Err() == nil {
				log.FromCtx(ctx).Debug().Err(err).Msg("typing indicator failed")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
