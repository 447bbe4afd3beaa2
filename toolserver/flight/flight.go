// Package flight exposes flight search and booking over MCP, backed by the
// inventory store.
package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
	inventoryx "github.com/wanderkit/concierge/inventory"
)

const serverName = "FlightSearch"

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3}$`)
)

type handlers struct {
	store *inventoryx.Store
}

// New builds the MCP server with the search_flights and book_flight tools
// registered. The caller picks the transport.
func New(store *inventoryx.Store, version string) *server.MCPServer {
	h := &handlers{store: store}

	srv := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("search_flights",
		mcp.WithDescription("Search for available flights based on departure location, arrival location, and date."),
		mcp.WithString("departure_location", mcp.Required(), mcp.Description("The city of departure")),
		mcp.WithString("arrival_location", mcp.Required(), mcp.Description("The destination city")),
		mcp.WithString("departure_date", mcp.Required(), mcp.Description("The departure date in YYYY-MM-DD format (e.g. 2024-05-20)")),
	), h.searchFlights)

	srv.AddTool(mcp.NewTool("book_flight",
		mcp.WithDescription("Book a flight for a customer using their provided credit card information."),
		mcp.WithString("customer_id", mcp.Required(), mcp.Description("The unique identifier for the customer")),
		mcp.WithNumber("flight_id", mcp.Required(), mcp.Description("The ID of the flight to book")),
		mcp.WithString("credit_card_number", mcp.Required(), mcp.Description("The customer's 16-digit credit card number")),
		mcp.WithString("credit_card_expiry", mcp.Required(), mcp.Description("The expiry date of the credit card in MM/YY format")),
		mcp.WithString("credit_card_cvv", mcp.Required(), mcp.Description("The 3-digit CVV security code of the credit card")),
	), h.bookFlight)

	return srv
}

func (h *handlers) searchFlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	departure := strings.TrimSpace(req.GetString("departure_location", ""))
	arrival := strings.TrimSpace(req.GetString("arrival_location", ""))
	date := strings.TrimSpace(req.GetString("departure_date", ""))
	if departure == "" || arrival == "" || date == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return mcp.NewToolResultError("Invalid date format. Please use YYYY-MM-DD format."), nil
	}

	flights, err := h.store.Search(ctx, departure, arrival, date)
	if err != nil {
		log.Error().Err(err).Str("departure", departure).Str("arrival", arrival).Msg("flight search failed")
		return mcp.NewToolResultError(fmt.Sprintf("Database error: %v", err)), nil
	}
	if len(flights) == 0 {
		return jsonResult(map[string]any{"message": "No flights found matching your criteria."})
	}
	return jsonResult(map[string]any{"flights": flights})
}

func (h *handlers) bookFlight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID := strings.TrimSpace(req.GetString("customer_id", ""))
	cardNumber := strings.TrimSpace(req.GetString("credit_card_number", ""))
	cardExpiry := strings.TrimSpace(req.GetString("credit_card_expiry", ""))
	cardCVV := strings.TrimSpace(req.GetString("credit_card_cvv", ""))
	flightID, err := req.RequireInt("flight_id")
	if err != nil || flightID <= 0 || customerID == "" || cardNumber == "" || cardExpiry == "" || cardCVV == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	if !cardNumberPattern.MatchString(cardNumber) {
		return mcp.NewToolResultError("Invalid credit card number. Must be 16 digits."), nil
	}
	if !cardExpiryPattern.MatchString(cardExpiry) {
		return mcp.NewToolResultError("Invalid expiry date. Must be in MM/YY format."), nil
	}
	if !cardCVVPattern.MatchString(cardCVV) {
		return mcp.NewToolResultError("Invalid CVV. Must be 3 digits."), nil
	}

	conf, err := h.store.Book(ctx, int64(flightID), customerID, cardNumber[len(cardNumber)-4:])
	if err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return mcp.NewToolResultError("Flight not found or no seats available."), nil
		}
		log.Error().Err(err).Int("flight_id", flightID).Msg("booking failed")
		return mcp.NewToolResultError(fmt.Sprintf("Booking failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"success":    true,
		"booking_id": conf.Booking.ID,
		"message":    fmt.Sprintf("Flight booked successfully! Booking ID: %d", conf.Booking.ID),
		"details": map[string]any{
			"flight_number":  conf.Flight.FlightNumber,
			"airline":        conf.Flight.Airline,
			"departure":      conf.Flight.DepartureLocation,
			"destination":    conf.Flight.ArrivalLocation,
			"date":           conf.Flight.DepartureDate,
			"departure_time": conf.Flight.DepartureTime,
			"payment_amount": conf.Booking.PaymentAmount,
			"payment_status": conf.Booking.PaymentStatus,
		},
	})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
