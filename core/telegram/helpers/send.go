package helpers

import (
	"log/slog"

	"github.com/m3rciful/relaybot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// SendText sends raw text (no parse mode) to the current chat.
func SendText(c tele.Context, text string) error {
	err := c.Send(text)
	if err != nil {
		logger.Warn(BuildContext(c), "tg.sender", "send.fail",
			slog.String("action", "send.text"),
			slog.String("endpoint", "sendMessage"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
	return err
}
