package config

import (
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/everebot/internal/core"
)

const (
	TransportDiscord  = "discord"
	TransportTelegram = "telegram"
	TransportCLI      = "cli"
)

type AppConfig struct {
	RuntimePath string `env:"EVERE_RUNTIME_PATH" envDefault:".evere"`
	Transport   string `env:"EVERE_TRANSPORT" envDefault:"discord"`

	// History
	HistorySize int `env:"EVERE_HISTORY_SIZE" envDefault:"100"`

	// Reserved commands, matched against the whole message, case-insensitive
	ShutdownCommand string `env:"EVERE_SHUTDOWN_COMMAND" envDefault:"nl1027"`
	ClearCommand    string `env:"EVERE_CLEAR_COMMAND" envDefault:"//clear"`

	// Status endpoint, disabled when empty
	HTTPAddr string `env:"EVERE_HTTP_ADDR"`
}

func NewAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, &core.ConfigurationError{Section: "app", Err: err}
	}

	c.RuntimePath = ResolveRuntimePath(c.RuntimePath)
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))

	switch c.Transport {
	case TransportDiscord, TransportTelegram, TransportCLI:
	default:
		return nil, &core.ConfigurationError{Section: "app", Err: errUnknown("transport", c.Transport)}
	}
	if c.HistorySize <= 0 {
		return nil, &core.ConfigurationError{Section: "app", Err: errPositive("EVERE_HISTORY_SIZE")}
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetMemoryDir() string {
	return filepath.Join(c.RuntimePath, "memories")
}

func (c AppConfig) GetPersonaPath() string {
	return filepath.Join(c.RuntimePath, "persona.yaml")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetHistorySize() int {
	return c.HistorySize
}

func (c AppConfig) IsHTTPEnabled() bool {
	return c.HTTPAddr != ""
}
