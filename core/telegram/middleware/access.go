package middleware

import (
	tghelpers "github.com/m3rciful/relaybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks behave.
type AdminOptions struct {
	AdminID int64
	// OnReject handles the update instead when the sender is not the admin.
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware lets only the admin reach next. Admin id 0 is a real
// id here, so an unset admin matches only a sender with id 0.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if userID, _ := tghelpers.IDs(c); userID != opts.AdminID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
