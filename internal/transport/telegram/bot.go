package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/transport/dialog"
	"github.com/sandevgo/aline/pkg/log"
	"github.com/sandevgo/aline/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	handler *dialog.Handler
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler *dialog.Handler,
	commands []core.Command,
) (*Bot, error) {
	logger := log.FromCtx(ctx)
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	rcfg := retry.NewDefaultConfig()
	rcfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("telegram unreachable, retrying")
	}

	var b *tele.Bot
	err := retry.NewRetrier(rcfg).Do(ctx, func() error {
		var err error
		b, err = tele.NewBot(pref)
		if errors.Is(err, tele.ErrUnauthorized) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		handler: handler,
		sender:  newSender(b),
		ownerID: cfg.GetTelegramOwnerID(),
	}

	// Carry the process context (and its logger) into handlers
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})
	b.Use(bot.allowList)

	b.Handle(tele.OnText, bot.handleMessage)

	if err := b.SetCommands(menu(commands)); err != nil {
		logger.Warn().Err(err).Msg("failed to publish telegram command menu")
	}

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// allowList drops updates from other chats when an owner is configured.
func (b *Bot) allowList(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.ownerID != 0 && (c.Sender() == nil || c.Sender().ID != b.ownerID) {
			return nil
		}
		return next(c)
	}
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	res := b.handler.Respond(ctx, sessionID(c.Chat().ID), c.Text())
	if res.Markdown {
		return b.sender.sendMarkdown(ctx, c.Chat(), res.Text)
	}

	if err := c.Send(res.Text); err != nil {
		logger.Error().Err(err).Int64("chat", c.Chat().ID).Msg("failed to send telegram message")
		return err
	}
	return nil
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func menu(commands []core.Command) []tele.Command {
	res := make([]tele.Command, 0, len(commands))
	for _, cmd := range commands {
		res = append(res, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	return res
}
