package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
	promptx "github.com/wanderkit/concierge/agent/prompt"
	routerx "github.com/wanderkit/concierge/agent/router"
	runtimex "github.com/wanderkit/concierge/agent/runtime"
	statex "github.com/wanderkit/concierge/agent/state"
	toolx "github.com/wanderkit/concierge/agent/tool"
	configx "github.com/wanderkit/concierge/pkg/config"
	_ "github.com/wanderkit/concierge/pkg/logger/autoload"
)

const version = "1.0.0"

type AppConfig struct {
	FlightServerCmd       string `envconfig:"FLIGHT_SERVER_CMD" default:"go run ./cmd/flight-server"`
	CancellationServerCmd string `envconfig:"CANCELLATION_SERVER_CMD" default:"go run ./cmd/cancellation-server"`
	InvoiceServerCmd      string `envconfig:"INVOICE_SERVER_CMD" default:"go run ./cmd/invoice-server"`
	ItineraryServerCmd    string `envconfig:"ITINERARY_SERVER_CMD" default:"go run ./cmd/itinerary-server"`
	HotelServerCmd        string `envconfig:"HOTEL_SERVER_CMD" default:"go run ./cmd/hotel-server"`
	EmailServerURL        string `envconfig:"EMAIL_SERVER_URL" default:""`
	EmailFrom             string `envconfig:"EMAIL_FROM" default:"bookings@wanderkit.dev"`
	EmailTo               string `envconfig:"EMAIL_TO" default:""`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	modelCfg := configx.MustNew[runtimex.Config]("OPENAI")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := toolx.NewGateway("concierge", version)
	defer gateway.Close()

	servers := []struct {
		name    string
		command string
	}{
		{routerx.ServerFlight, appCfg.FlightServerCmd},
		{routerx.ServerCancellation, appCfg.CancellationServerCmd},
		{routerx.ServerInvoice, appCfg.InvoiceServerCmd},
		{routerx.ServerItinerary, appCfg.ItineraryServerCmd},
		{routerx.ServerHotel, appCfg.HotelServerCmd},
	}
	for _, srv := range servers {
		if err := gateway.ConnectStdio(ctx, srv.name, srv.command, os.Environ()); err != nil {
			log.Fatal().Err(err).Str("server", srv.name).Msg("connect tool server")
		}
	}
	if appCfg.EmailServerURL != "" {
		if err := gateway.ConnectSSE(ctx, routerx.ServerEmail, appCfg.EmailServerURL); err != nil {
			log.Fatal().Err(err).Msg("connect email server")
		}
	}

	prompts := promptx.LoadPromptSet(promptx.EmailConfig{From: appCfg.EmailFrom, To: appCfg.EmailTo})
	model := runtimex.NewOpenAIModel(*modelCfg)
	r := routerx.New(model, gateway, prompts, statex.NewMemoryStore())

	sess := statex.NewSession(uuid.NewString(), contractx.AgentTriage, time.Now())

	fmt.Println("Welcome to the Travel Booking System! Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "exit", "quit", "bye":
			fmt.Println("Goodbye! Have a great trip!")
			return
		}

		out, err := r.Turn(ctx, sess, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Printf("%s: %s\n", sess.Current, out.Reply)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}
