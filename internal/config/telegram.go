package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/everebot/internal/core"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	// OwnerID limits the bot to one user when set.
	OwnerID int64 `env:"TELEGRAM_OWNER_ID" envDefault:"0"`
}

func NewTelegramConfig() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, &core.ConfigurationError{Section: "telegram", Err: err}
	}
	return c, nil
}
