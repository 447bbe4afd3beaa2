package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	configx "github.com/wanderkit/concierge/pkg/config"
	_ "github.com/wanderkit/concierge/pkg/logger/autoload"
	placesx "github.com/wanderkit/concierge/pkg/places"
	itineraryx "github.com/wanderkit/concierge/toolserver/itinerary"
)

const version = "1.0.0"

type Config struct {
	ItineraryDir string `envconfig:"ITINERARY_DIR" default:"itineraries"`
}

func main() {
	cfg := configx.MustNew[Config]("TRAVEL")
	placesCfg := configx.MustNew[placesx.Config]("PLACES")
	finder := placesx.MustNew(*placesCfg)

	if err := server.ServeStdio(itineraryx.New(finder, cfg.ItineraryDir, version)); err != nil {
		log.Fatal().Err(err).Msg("itinerary server stopped")
	}
}
