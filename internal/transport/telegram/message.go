package telegram

import (
	"strconv"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/internal/service/chat"
	tele "gopkg.in/telebot.v3"
)

// inbound maps a Telegram message to the handler's view. Private chats are
// keyed by the sender; groups by chat id and forum topic.
func inbound(m *tele.Message, me *tele.User) chat.Inbound {
	in := chat.Inbound{Text: m.Text}

	if m.Sender != nil {
		id := strconv.FormatInt(m.Sender.ID, 10)
		in.AuthorID = id
		in.AuthorName = displayName(m.Sender)
		in.FromSelf = me != nil && m.Sender.ID == me.ID
		in.Surface.ParticipantID = id
	}

	if m.Chat != nil && m.Chat.Type != tele.ChatPrivate {
		in.Surface = core.Surface{
			GroupID:       strconv.FormatInt(m.Chat.ID, 10),
			ChannelID:     strconv.Itoa(topicID(m)),
			ParticipantID: in.Surface.ParticipantID,
		}
	}
	return in
}

// topicID is the forum topic of m, or 0. Replies in groups without topics
// carry a thread id too, but they belong to the main conversation.
func topicID(m *tele.Message) int {
	if !m.TopicMessage {
		return 0
	}
	return m.ThreadID
}

func displayName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return strconv.FormatInt(u.ID, 10)
}
