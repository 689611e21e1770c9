package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/everebot/internal/core"
)

type DiscordConfig struct {
	Token string `env:"DISCORD_TOKEN,required,notEmpty"`
}

func NewDiscordConfig() (*DiscordConfig, error) {
	c := &DiscordConfig{}
	if err := env.Parse(c); err != nil {
		return nil, &core.ConfigurationError{Section: "discord", Err: err}
	}
	return c, nil
}
