package bootstrap

import (
	coreconfig "github.com/m3rciful/relaybot/core/config"
	"github.com/m3rciful/relaybot/core/relay"
	coretelegram "github.com/m3rciful/relaybot/core/telegram"
	"github.com/m3rciful/relaybot/core/telegram/router"
	"github.com/m3rciful/relaybot/core/telegram/sender"
)

// App is the relay bot ready to run.
type App struct {
	cfg   *coreconfig.Config
	relay *relay.Relay
}

// NewApp runs the bootstrap pipeline for cfg.
func NewApp(cfg *coreconfig.Config) (*App, error) {
	res, err := Run(Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, relay: res.Relay}, nil
}

// TelegramRunOptions wires commands, relay routes and the error sink.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	router.RegisterRelayCommands(reg, a.relay)

	relayOpts := router.RelayOptions{}
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.relay.OperatorID(),
		OnAdminReject: router.RelayHandler(a.relay, relayOpts),
	})
	routes = append(routes, router.MessageRoutes(a.relay, relayOpts)...)
	routes = append(routes, router.CallbackRoute(a.relay, relayOpts))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
		OnError:     sender.ReportError,
	}, nil
}
