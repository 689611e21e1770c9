package telegram

import (
	"context"
	"fmt"

	"github.com/sandevgo/everebot/pkg/conv"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type api interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Notify(to tele.Recipient, action tele.ChatAction, threadID ...int) error
}

type replier struct {
	api      api
	to       tele.Recipient
	threadID int
}

func newReplier(api api, to tele.Recipient, threadID int) *replier {
	return &replier{api: api, to: to, threadID: threadID}
}

// Send renders Markdown to Telegram HTML and sends it in chunks if needed.
// Text that renders to nothing is sent as is.
func (r *replier) Send(ctx context.Context, text string) error {
	opts := &tele.SendOptions{ThreadID: r.threadID}

	body := conv.TelegramHTML(text)
	if body == "" {
		body = text
	} else {
		opts.ParseMode = tele.ModeHTML
	}

	for i, chunk := range conv.Split(body, maxTelegramMsgLen) {
		if chunk == "" {
			continue
		}
		if _, err := r.api.Send(r.to, chunk, opts); err != nil {
			return fmt.Errorf("send chunk %d (%d bytes): %w", i, len(chunk), err)
		}
	}
	return nil
}

func (r *replier) Typing(ctx context.Context) error {
	if r.threadID != 0 {
		return r.api.Notify(r.to, tele.Typing, r.threadID)
	}
	return r.api.Notify(r.to, tele.Typing)
}
