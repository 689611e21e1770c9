package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
)

// NewGenerator creates the reply generator selected by configuration.
func NewGenerator(ctx context.Context, cfg *config.GeneratorConfig) (core.Generator, error) {
	logger := log.FromCtx(ctx)

	switch cfg.Kind {
	case config.GeneratorLlamaRun:
		logger.Info().
			Str("binary", cfg.LlamaBinary).
			Str("model", cfg.LlamaModel).
			Int("context", cfg.ContextSize).
			Msg("starting llama-run generator")
		return NewRunner(RunnerConfig{
			Binary:        cfg.LlamaBinary,
			Model:         cfg.LlamaModel,
			ContextSize:   cfg.ContextSize,
			Timeout:       cfg.Timeout,
			MaxReplyBytes: cfg.MaxReplyBytes,
		}), nil
	case config.GeneratorOpenAI:
		logger.Info().
			Str("url", cfg.OpenAIBaseURL).
			Str("model", cfg.OpenAIModel).
			Msg("starting completion generator")
		return NewCompletion(CompletionConfig{
			BaseURL:       cfg.OpenAIBaseURL,
			APIKey:        cfg.OpenAIAPIKey,
			Model:         cfg.OpenAIModel,
			MaxTokens:     cfg.MaxTokens,
			Timeout:       cfg.Timeout,
			MaxReplyBytes: cfg.MaxReplyBytes,
		}, nil), nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Kind)
	}
}
