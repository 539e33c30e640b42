// Package sender performs outbound Telegram calls on behalf of the relay
// and reports their failures.
package sender

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/m3rciful/relaybot/core/logger"
	"github.com/m3rciful/relaybot/core/relay"
	"github.com/m3rciful/relaybot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// API is the part of the bot API the outbox calls. *tele.Bot satisfies it.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Copy(to tele.Recipient, msg tele.Editable, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Reply(to *tele.Message, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Outbox implements relay.Outbox over the Telegram bot API.
// Calls are synchronous and never retried.
type Outbox struct {
	api API
}

var _ relay.Outbox = (*Outbox)(nil)

// NewOutbox wraps api.
func NewOutbox(api API) *Outbox {
	return &Outbox{api: api}
}

// Copy duplicates msg into chat to without the "forwarded from" header.
func (o *Outbox) Copy(ctx context.Context, msg relay.MessageRef, to int64) error {
	return o.call(ctx, "copy", "copyMessage", to, func() error {
		_, err := o.api.Copy(tele.ChatID(to), stored(msg))
		return err
	})
}

// Notify sends a Markdown text to chat to, with one inline button when control is set.
func (o *Outbox) Notify(ctx context.Context, to int64, text string, control *relay.Control) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if control != nil {
		opts.ReplyMarkup = keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: control.Label, Data: control.Payload},
		})
	}
	return o.call(ctx, "notify", "sendMessage", to, func() error {
		_, err := o.api.Send(tele.ChatID(to), text, opts)
		return err
	})
}

// Edit replaces the text of msg, dropping its inline keyboard.
func (o *Outbox) Edit(ctx context.Context, msg relay.MessageRef, text string) error {
	return o.call(ctx, "edit", "editMessageText", msg.ChatID, func() error {
		_, err := o.api.Edit(stored(msg), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	})
}

// Reply answers msg in its chat with plain text.
func (o *Outbox) Reply(ctx context.Context, msg relay.MessageRef, text string) error {
	to := &tele.Message{ID: msg.MessageID, Chat: &tele.Chat{ID: msg.ChatID}}
	return o.call(ctx, "reply", "sendMessage", msg.ChatID, func() error {
		_, err := o.api.Reply(to, text)
		return err
	})
}

func (o *Outbox) call(ctx context.Context, action, endpoint string, target int64, run func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := run()
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("endpoint", endpoint),
		slog.Int64("target_id", target),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("status", "fail"),
			slog.String("err", sanitizeErrorMessage(err)),
			slog.String("error_kind", classifyError(err)),
		)
		logger.Warn(ctx, "tg.sender", "send.fail", attrs...)
		return err
	}
	logger.Debug(ctx, "tg.sender", "send.success", append(attrs, slog.String("status", "ok"))...)
	return nil
}

func stored(msg relay.MessageRef) tele.StoredMessage {
	return tele.StoredMessage{
		MessageID: strconv.Itoa(msg.MessageID),
		ChatID:    msg.ChatID,
	}
}
