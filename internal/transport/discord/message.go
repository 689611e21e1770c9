package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/service/chat"
)

// inbound maps a gateway message to the handler's view. Messages without a
// guild are direct messages and are keyed by their author.
func inbound(m *discordgo.Message, selfID string) chat.Inbound {
	in := chat.Inbound{
		Surface: core.Surface{
			GroupID:   m.GuildID,
			ChannelID: m.ChannelID,
		},
		Text: m.Content,
	}
	if m.Author != nil {
		in.Surface.ParticipantID = m.Author.ID
		in.AuthorID = m.Author.ID
		in.AuthorName = displayName(m)
		in.FromSelf = selfID != "" && m.Author.ID == selfID
	}
	return in
}

// displayName prefers the guild nickname, then the global display name, then
// the account handle. Member.DisplayName is not usable here: gateway message
// events carry a Member without its User.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
