package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/service/chat"
	"github.com/sandevgo/everebot/pkg/log"
)

type MessageHandler interface {
	Handle(ctx context.Context, in chat.Inbound, out chat.Replier) error
}

type Bot struct {
	session *discordgo.Session
	handler MessageHandler
	ctx     context.Context
}

func NewBot(ctx context.Context, cfg *config.DiscordConfig, handler MessageHandler) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		session: s,
		handler: handler,
		ctx:     ctx,
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onMessageCreate)

	return b, nil
}

// Start opens the gateway connection. discordgo dispatches events on its own
// goroutines, so Start returns once connected.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("closing discord gateway")
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.FromCtx(b.ctx).Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("connected to discord")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	// errors are already logged and reported to the channel by the handler
	_ = b.handler.Handle(b.ctx, inbound(m.Message, selfID), newReplier(s, m.ChannelID))
}
