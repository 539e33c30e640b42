package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/relaybot/core/relay"
	tg "github.com/m3rciful/relaybot/core/telegram"
	tghelpers "github.com/m3rciful/relaybot/core/telegram/helpers"
	"github.com/m3rciful/relaybot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// MessageEndpoints lists every message kind relayed between users and the operator.
var MessageEndpoints = []string{
	tele.OnText,
	tele.OnPhoto,
	tele.OnVideo,
	tele.OnAudio,
	tele.OnVoice,
	tele.OnDocument,
	tele.OnSticker,
	tele.OnAnimation,
	tele.OnVideoNote,
	tele.OnContact,
	tele.OnLocation,
	tele.OnVenue,
	tele.OnPoll,
	tele.OnDice,
}

// RelayOptions configures relay routes.
type RelayOptions struct {
	// Outbox returns the outbound side for an update; defaults to the update's bot.
	Outbox func(c tele.Context) relay.Outbox
}

func (o RelayOptions) withDefaults() RelayOptions {
	if o.Outbox == nil {
		o.Outbox = func(c tele.Context) relay.Outbox {
			return sender.NewOutbox(c.Bot())
		}
	}
	return o
}

// MessageRoutes binds every message endpoint to the relay.
func MessageRoutes(r *relay.Relay, opts RelayOptions) []tg.Route {
	h := RelayHandler(r, opts)
	routes := make([]tg.Route, 0, len(MessageEndpoints))
	for _, ep := range MessageEndpoints {
		routes = append(routes, tg.Route{Endpoint: ep, Handler: h})
	}
	return routes
}

// RelayHandler passes the update to the relay and logs one summary line.
func RelayHandler(r *relay.Relay, opts RelayOptions) tele.HandlerFunc {
	opts = opts.withDefaults()
	return func(c tele.Context) error {
		return relayWithSummary(c, r, opts, "relay", time.Now())
	}
}

func relayWithSummary(c tele.Context, r *relay.Relay, opts RelayOptions, handlerName string, start time.Time, extras ...slog.Attr) error {
	ctx := tghelpers.WithHandler(c, handlerName)
	res, err := r.Handle(ctx, eventFromContext(c), opts.Outbox(c))
	logHandlerSummary(c, handlerName, start, relayOutcome(res), err, append(relayAttrs(res), extras...)...)
	return err
}
