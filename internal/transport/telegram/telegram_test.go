package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestInbound(t *testing.T) {
	me := &tele.User{ID: 1, Username: "evere_bot"}

	tests := []struct {
		name     string
		msg      *tele.Message
		wantKey  string
		wantName string
		wantSelf bool
	}{
		{
			name: "private chat",
			msg: &tele.Message{
				Text:   "hi",
				Sender: &tele.User{ID: 99, Username: "bob"},
				Chat:   &tele.Chat{ID: 99, Type: tele.ChatPrivate},
			},
			wantKey:  "dm-99",
			wantName: "bob",
		},
		{
			name: "group",
			msg: &tele.Message{
				Text:   "hi",
				Sender: &tele.User{ID: 5, FirstName: "Ann"},
				Chat:   &tele.Chat{ID: -100, Type: tele.ChatSuperGroup},
			},
			wantKey:  "server--100-channel-0",
			wantName: "Ann",
		},
		{
			name: "forum topic",
			msg: &tele.Message{
				Text:         "hi",
				ThreadID:     7,
				TopicMessage: true,
				Sender:       &tele.User{ID: 5},
				Chat:         &tele.Chat{ID: -100, Type: tele.ChatSuperGroup},
			},
			wantKey:  "server--100-channel-7",
			wantName: "5",
		},
		{
			name: "reply in group without topics",
			msg: &tele.Message{
				Text:     "hi",
				ThreadID: 42,
				Sender:   &tele.User{ID: 5, FirstName: "Ann"},
				Chat:     &tele.Chat{ID: -100, Type: tele.ChatSuperGroup},
			},
			wantKey:  "server--100-channel-0",
			wantName: "Ann",
		},
		{
			name: "own message",
			msg: &tele.Message{
				Sender: &tele.User{ID: 1, Username: "evere_bot"},
				Chat:   &tele.Chat{ID: -100, Type: tele.ChatGroup},
			},
			wantKey:  "server--100-channel-0",
			wantName: "evere_bot",
			wantSelf: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := inbound(tt.msg, me)
			assert.Equal(t, tt.wantKey, in.Surface.Key())
			assert.Equal(t, tt.wantName, in.AuthorName)
			assert.Equal(t, tt.wantSelf, in.FromSelf)
			assert.Equal(t, tt.msg.Text, in.Text)
		})
	}
}

func TestBot_Allowed(t *testing.T) {
	open := &Bot{}
	owned := &Bot{ownerID: 42}

	assert.True(t, open.allowed(&tele.User{ID: 7}))
	assert.False(t, open.allowed(nil))
	assert.True(t, owned.allowed(&tele.User{ID: 42}))
	assert.False(t, owned.allowed(&tele.User{ID: 7}))
}

type sent struct {
	text string
	opts *tele.SendOptions
}

type fakeAPI struct {
	sent     []sent
	threadID []int
}

func (f *fakeAPI) Send(_ tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s := sent{text: what.(string)}
	if len(opts) > 0 {
		s.opts = opts[0].(*tele.SendOptions)
	}
	f.sent = append(f.sent, s)
	return &tele.Message{}, nil
}

func (f *fakeAPI) Notify(_ tele.Recipient, _ tele.ChatAction, threadID ...int) error {
	f.threadID = append(f.threadID, threadID...)
	return nil
}

func TestReplier_Send(t *testing.T) {
	api := &fakeAPI{}
	r := newReplier(api, &tele.Chat{ID: 1}, 3)

	require.NoError(t, r.Send(context.Background(), "**hey** Bob"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "<strong>hey</strong> Bob", api.sent[0].text)
	assert.Equal(t, tele.ModeHTML, api.sent[0].opts.ParseMode)
	assert.Equal(t, 3, api.sent[0].opts.ThreadID)
}

func TestReplier_SendPlainFallback(t *testing.T) {
	api := &fakeAPI{}
	r := newReplier(api, &tele.Chat{ID: 1}, 0)

	require.NoError(t, r.Send(context.Background(), "<script>x</script>"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "<script>x</script>", api.sent[0].text)
	assert.Equal(t, tele.ParseMode(""), api.sent[0].opts.ParseMode)
}

func TestReplier_SendSplitsLongReplies(t *testing.T) {
	api := &fakeAPI{}
	r := newReplier(api, &tele.Chat{ID: 1}, 0)

	require.NoError(t, r.Send(context.Background(), strings.Repeat("line of text\n", 700)))

	assert.Len(t, api.sent, 3)
	for _, s := range api.sent {
		assert.LessOrEqual(t, len(s.text), maxTelegramMsgLen)
	}
}

func TestReplier_Typing(t *testing.T) {
	api := &fakeAPI{}

	require.NoError(t, newReplier(api, &tele.Chat{ID: 1}, 0).Typing(context.Background()))
	require.NoError(t, newReplier(api, &tele.Chat{ID: 1}, 9).Typing(context.Background()))

	assert.Equal(t, []int{9}, api.threadID)
}

func TestTopicID(t *testing.T) {
	assert.Equal(t, 0, topicID(&tele.Message{ThreadID: 42}))
	assert.Equal(t, 42, topicID(&tele.Message{ThreadID: 42, TopicMessage: true}))
	assert.Equal(t, 0, topicID(&tele.Message{}))
}
