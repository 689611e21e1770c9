package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/everebot/internal/core"
)

const (
	GeneratorLlamaRun = "llama-run"
	GeneratorOpenAI   = "openai"
)

type GeneratorConfig struct {
	Kind string `env:"EVERE_GENERATOR" envDefault:"llama-run"`

	// External llama-run process
	LlamaBinary string `env:"EVERE_LLAMA_BINARY" envDefault:"llama/llama-run"`
	LlamaModel  string `env:"EVERE_LLAMA_MODEL" envDefault:"models/evere8b-u3-base.gguf"`
	ContextSize int    `env:"EVERE_CONTEXT_SIZE" envDefault:"16000"`

	// OpenAI-compatible completion server (llama.cpp server, ollama, ...)
	OpenAIBaseURL string `env:"EVERE_OPENAI_BASE_URL" envDefault:"http://localhost:8080"`
	OpenAIAPIKey  string `env:"EVERE_OPENAI_API_KEY"`
	OpenAIModel   string `env:"EVERE_OPENAI_MODEL" envDefault:"evere"`
	MaxTokens     int    `env:"EVERE_MAX_TOKENS" envDefault:"512"`

	Timeout       time.Duration `env:"EVERE_GENERATOR_TIMEOUT" envDefault:"5m"`
	MaxReplyBytes int           `env:"EVERE_MAX_REPLY_BYTES" envDefault:"4000"`
}

func NewGeneratorConfig() (*GeneratorConfig, error) {
	c := &GeneratorConfig{}
	if err := env.Parse(c); err != nil {
		return nil, &core.ConfigurationError{Section: "generator", Err: err}
	}

	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	switch c.Kind {
	case GeneratorLlamaRun, GeneratorOpenAI:
	default:
		return nil, &core.ConfigurationError{Section: "generator", Err: errUnknown("generator", c.Kind)}
	}
	return c, nil
}

func (c GeneratorConfig) GetContextSize() int {
	return c.ContextSize
}

func (c GeneratorConfig) GetTimeout() time.Duration {
	return c.Timeout
}

func (c GeneratorConfig) GetMaxReplyBytes() int {
	return c.MaxReplyBytes
}
