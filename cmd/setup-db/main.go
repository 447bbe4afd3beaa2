// Command setup-db creates the inventory schema and seeds a month of random
// flight data. Safe to re-run; tables are created if missing and new flights
// are appended.
package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	inventoryx "github.com/wanderkit/concierge/inventory"
	configx "github.com/wanderkit/concierge/pkg/config"
	_ "github.com/wanderkit/concierge/pkg/logger/autoload"
)

type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"flights.db"`
	SeedDays int    `envconfig:"SEED_DAYS" default:"30"`
}

func main() {
	cfg := configx.MustNew[Config]("TRAVEL")
	store := inventoryx.New(cfg.DBPath)
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	n, err := store.Seed(ctx, cfg.SeedDays, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("seed flights")
	}
	log.Info().Str("db", cfg.DBPath).Int("flights", n).Int("days", cfg.SeedDays).Msg("inventory ready")
}
