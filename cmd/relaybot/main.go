package main

import (
	"log"

	"github.com/m3rciful/relaybot/core/bootstrap"
	corecmd "github.com/m3rciful/relaybot/core/cmd"
	coreconfig "github.com/m3rciful/relaybot/core/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		Bootstrap: func(cfg *coreconfig.Config) (corecmd.TelegramApp, error) {
			return bootstrap.NewApp(cfg)
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
