package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	inventoryx "github.com/wanderkit/concierge/inventory"
	configx "github.com/wanderkit/concierge/pkg/config"
	_ "github.com/wanderkit/concierge/pkg/logger/autoload"
	flightx "github.com/wanderkit/concierge/toolserver/flight"
)

const version = "1.0.0"

type Config struct {
	DBPath string `envconfig:"DB_PATH" default:"flights.db"`
}

func main() {
	cfg := configx.MustNew[Config]("TRAVEL")
	store := inventoryx.New(cfg.DBPath)

	if err := server.ServeStdio(flightx.New(store, version)); err != nil {
		log.Fatal().Err(err).Msg("flight server stopped")
	}
}
