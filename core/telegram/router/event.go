package router

import (
	"github.com/m3rciful/relaybot/core/relay"
	"github.com/m3rciful/relaybot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// eventFromContext converts a telebot update into a relay event.
// Callback queries become controls bound to the message carrying the button.
func eventFromContext(c tele.Context) relay.Event {
	ev := relay.Event{Kind: relay.KindUnknown}
	if u := c.Sender(); u != nil {
		ev.Sender = &relay.Sender{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	}

	if cb := c.Callback(); cb != nil {
		ev.Kind = relay.KindControl
		ev.Payload = callbacks.CallbackData(c)
		if m := cb.Message; m != nil && m.Chat != nil {
			ev.Message = relay.MessageRef{ChatID: m.Chat.ID, MessageID: m.ID}
		}
		return ev
	}

	if m := c.Message(); m != nil && m.Chat != nil {
		ev.Kind = relay.KindMessage
		ev.Message = relay.MessageRef{ChatID: m.Chat.ID, MessageID: m.ID}
	}
	return ev
}
