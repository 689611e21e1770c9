package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/service/chat"
	"github.com/sandevgo/everebot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type MessageHandler interface {
	Handle(ctx context.Context, in chat.Inbound, out chat.Replier) error
}

type Bot struct {
	bot     *tele.Bot
	handler MessageHandler
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler MessageHandler,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram update failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		handler: handler,
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: only the owner, when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !bot.allowed(c.Sender()) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("user", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) allowed(sender *tele.User) bool {
	if sender == nil {
		return false
	}
	return b.ownerID == 0 || sender.ID == b.ownerID
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	msg := c.Message()

	out := newReplier(b.bot, msg.Chat, topicID(msg))
	// errors are already logged and reported to the chat by the handler
	_ = b.handler.Handle(ctx, inbound(msg, b.bot.Me), out)
	return nil
}
