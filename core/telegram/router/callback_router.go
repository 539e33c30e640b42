package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/relaybot/core/logger"
	"github.com/m3rciful/relaybot/core/relay"
	tg "github.com/m3rciful/relaybot/core/telegram"
	"github.com/m3rciful/relaybot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/relaybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute acknowledges every callback query and hands it to the relay
// as a control event.
func CallbackRoute(r *relay.Relay, opts RelayOptions) tg.Route {
	opts = opts.withDefaults()
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}
		key := callbacks.CallbackKey(c)

		if err := c.Respond(); err != nil {
			logger.Warn(tghelpers.BuildContext(c), "tg", "callback.answer.fail",
				slog.String("cb_key", logger.SanitizeLimit(key, 128)),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}

		return relayWithSummary(c, r, opts, "callback.reply", start,
			slog.String("cb_key", logger.SanitizeLimit(key, 128)))
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  handler,
	}
}
