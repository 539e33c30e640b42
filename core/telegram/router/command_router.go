package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/relaybot/core/logger"
	"github.com/m3rciful/relaybot/core/relay"
	tg "github.com/m3rciful/relaybot/core/telegram"
	"github.com/m3rciful/relaybot/core/telegram/commands"
	tghelpers "github.com/m3rciful/relaybot/core/telegram/helpers"
	"github.com/m3rciful/relaybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// RegisterRelayCommands adds /start and the admin-only /status to reg.
func RegisterRelayCommands(reg *tg.Registry, r *relay.Relay) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start the bot",
		Handler: func(c tele.Context) error {
			userID, _ := tghelpers.IDs(c)
			return tghelpers.SendText(c, r.Greeting(userID))
		},
	})
	reg.RegisterCommand("/status", commands.Command{
		Description: "Show the current reply session",
		AdminOnly:   true,
		Hidden:      true,
		Handler: func(c tele.Context) error {
			return tghelpers.SendText(c, r.Describe())
		},
	})
}

// CommandRoutes prepares command handlers, admin-checked where required.
// Rejected admin commands go to OnAdminReject unlogged, so the handler it
// delegates to writes the only summary line.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		h := summarized(normalizeHandlerName(name), def.Handler)
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "commands.wired"),
		slog.Int("commands", len(cmds)),
	)
	return routes
}

func summarized(name string, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		return handleWithSummary(c, "command."+name, time.Now(), func() error {
			return next(c)
		})
	}
}
