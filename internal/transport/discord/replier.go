package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sandevgo/everebot/pkg/conv"
)

const maxMessageLen = 2000

type channelAPI interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

type replier struct {
	api       channelAPI
	channelID string
}

func newReplier(api channelAPI, channelID string) *replier {
	return &replier{api: api, channelID: channelID}
}

func (r *replier) Send(ctx context.Context, text string) error {
	for i, chunk := range conv.Split(text, maxMessageLen) {
		if chunk == "" {
			continue
		}
		if _, err := r.api.ChannelMessageSend(r.channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send chunk %d to %s: %w", i, r.channelID, err)
		}
	}
	return nil
}

func (r *replier) Typing(ctx context.Context) error {
	return r.api.ChannelTyping(r.channelID, discordgo.WithContext(ctx))
}
