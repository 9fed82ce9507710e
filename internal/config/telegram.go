package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aline/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"ALINE_TELEGRAM_TOKEN,required,notEmpty"`
	// OwnerID restricts the bot to a single chat when set.
	OwnerID int64 `env:"ALINE_TELEGRAM_OWNER_ID"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) GetTelegramToken() string {
	return c.Token
}

func (c TelegramConfig) GetTelegramOwnerID() int64 {
	return c.OwnerID
}
