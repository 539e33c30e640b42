// Package bootstrap builds the relay application from configuration.
package bootstrap

import (
	"fmt"

	coreconfig "github.com/m3rciful/relaybot/core/config"
	"github.com/m3rciful/relaybot/core/logger"
	"github.com/m3rciful/relaybot/core/relay"
	"github.com/m3rciful/relaybot/core/session"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
}

// Result exposes what the bootstrap pipeline built.
type Result struct {
	Relay *relay.Relay
}

// Run initializes the logger and builds the session store and relay.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	r := relay.New(relay.Config{
		OperatorID: opts.Config.Telegram.AdminID,
		ReplyTTL:   opts.Config.ReplyTTL(),
	}, session.NewStore())

	return &Result{Relay: r}, nil
}
