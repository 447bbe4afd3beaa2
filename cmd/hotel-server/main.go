package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	amadeusx "github.com/wanderkit/concierge/pkg/amadeus"
	configx "github.com/wanderkit/concierge/pkg/config"
	_ "github.com/wanderkit/concierge/pkg/logger/autoload"
	hotelx "github.com/wanderkit/concierge/toolserver/hotel"
)

const version = "1.0.0"

func main() {
	amadeusCfg := configx.MustNew[amadeusx.Config]("AMADEUS")
	client := amadeusx.MustNew(*amadeusCfg)

	if err := server.ServeStdio(hotelx.New(client, version)); err != nil {
		log.Fatal().Err(err).Msg("hotel server stopped")
	}
}
