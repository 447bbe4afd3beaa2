package flight

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryx "github.com/wanderkit/concierge/inventory"
)

func newTestStore(t *testing.T) *inventoryx.Store {
	t.Helper()
	s := inventoryx.New(filepath.Join(t.TempDir(), "flights.db"))
	require.NoError(t, s.Init(context.Background()))
	return s
}

func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(srv)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "flight-test", Version: "0.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = args
	res, err := c.CallTool(ctx, callReq)
	require.NoError(t, err)

	var sb strings.Builder
	for _, item := range res.Content {
		if tc, ok := item.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), res.IsError
}

func addFlight(t *testing.T, s *inventoryx.Store, seats int, price float64) int64 {
	t.Helper()
	f := &inventoryx.Flight{
		FlightNumber:      "DA2001",
		Airline:           "Delta Air Lines",
		DepartureLocation: "Chicago",
		ArrivalLocation:   "Paris",
		DepartureDate:     "2026-07-04",
		DepartureTime:     "09:15",
		ArrivalTime:       "17:40",
		Price:             price,
		SeatsAvailable:    seats,
	}
	require.NoError(t, s.AddFlight(context.Background(), f))
	return f.ID
}

func validBookingArgs(flightID int64) map[string]any {
	return map[string]any{
		"customer_id":        "CUST-1",
		"flight_id":          flightID,
		"credit_card_number": "4111111111111111",
		"credit_card_expiry": "12/27",
		"credit_card_cvv":    "123",
	}
}

func TestSearchFlightsMissingParameters(t *testing.T) {
	srv := New(newTestStore(t), "test")

	text, isErr := callTool(t, srv, "search_flights", map[string]any{
		"departure_location": "Chicago",
	})
	assert.True(t, isErr)
	assert.Equal(t, "Missing required parameters", text)
}

func TestSearchFlightsRejectsBadDateBeforeQuerying(t *testing.T) {
	// No tables exist; reaching the database would error differently.
	store := inventoryx.New(filepath.Join(t.TempDir(), "missing.db"))
	srv := New(store, "test")

	text, isErr := callTool(t, srv, "search_flights", map[string]any{
		"departure_location": "Chicago",
		"arrival_location":   "Paris",
		"departure_date":     "07/04/2026",
	})
	assert.True(t, isErr)
	assert.Equal(t, "Invalid date format. Please use YYYY-MM-DD format.", text)
}

func TestSearchFlightsNoMatches(t *testing.T) {
	srv := New(newTestStore(t), "test")

	text, isErr := callTool(t, srv, "search_flights", map[string]any{
		"departure_location": "Chicago",
		"arrival_location":   "Paris",
		"departure_date":     "2026-07-04",
	})
	assert.False(t, isErr)
	assert.JSONEq(t, `{"message": "No flights found matching your criteria."}`, text)
}

func TestSearchFlightsReturnsMatches(t *testing.T) {
	store := newTestStore(t)
	addFlight(t, store, 12, 640.00)
	srv := New(store, "test")

	text, isErr := callTool(t, srv, "search_flights", map[string]any{
		"departure_location": "Chicago",
		"arrival_location":   "Paris",
		"departure_date":     "2026-07-04",
	})
	require.False(t, isErr)

	var payload struct {
		Flights []inventoryx.Flight `json:"flights"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	require.Len(t, payload.Flights, 1)
	assert.Equal(t, "DA2001", payload.Flights[0].FlightNumber)
	assert.Equal(t, 640.00, payload.Flights[0].Price)
}

func TestBookFlightValidatesCardBeforeTouchingStore(t *testing.T) {
	// Store points at a path with no schema; card validation must fire first.
	store := inventoryx.New(filepath.Join(t.TempDir(), "missing.db"))
	srv := New(store, "test")

	cases := []struct {
		name string
		mut  func(map[string]any)
		want string
	}{
		{"short card number", func(a map[string]any) { a["credit_card_number"] = "1234" },
			"Invalid credit card number. Must be 16 digits."},
		{"card number with letters", func(a map[string]any) { a["credit_card_number"] = "4111abcd11111111" },
			"Invalid credit card number. Must be 16 digits."},
		{"bad expiry month", func(a map[string]any) { a["credit_card_expiry"] = "13/27" },
			"Invalid expiry date. Must be in MM/YY format."},
		{"expiry without slash", func(a map[string]any) { a["credit_card_expiry"] = "1227" },
			"Invalid expiry date. Must be in MM/YY format."},
		{"long cvv", func(a map[string]any) { a["credit_card_cvv"] = "1234" },
			"Invalid CVV. Must be 3 digits."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := validBookingArgs(1)
			tc.mut(args)
			text, isErr := callTool(t, srv, "book_flight", args)
			assert.True(t, isErr)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestBookFlightMissingParameters(t *testing.T) {
	srv := New(newTestStore(t), "test")

	args := validBookingArgs(1)
	delete(args, "customer_id")
	text, isErr := callTool(t, srv, "book_flight", args)
	assert.True(t, isErr)
	assert.Equal(t, "Missing required parameters", text)
}

func TestBookFlightUnknownOrSoldOut(t *testing.T) {
	store := newTestStore(t)
	soldOut := addFlight(t, store, 0, 300.00)
	srv := New(store, "test")

	for _, id := range []int64{soldOut, 9999} {
		text, isErr := callTool(t, srv, "book_flight", validBookingArgs(id))
		assert.True(t, isErr)
		assert.Equal(t, "Flight not found or no seats available.", text)
	}
}

func TestBookFlightSuccess(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	id := addFlight(t, store, 3, 725.25)
	srv := New(store, "test")

	text, isErr := callTool(t, srv, "book_flight", validBookingArgs(id))
	require.False(t, isErr)

	var payload struct {
		Success   bool   `json:"success"`
		BookingID int64  `json:"booking_id"`
		Message   string `json:"message"`
		Details   struct {
			FlightNumber  string  `json:"flight_number"`
			Airline       string  `json:"airline"`
			Departure     string  `json:"departure"`
			Destination   string  `json:"destination"`
			PaymentAmount float64 `json:"payment_amount"`
			PaymentStatus string  `json:"payment_status"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.True(t, payload.Success)
	assert.Positive(t, payload.BookingID)
	assert.Contains(t, payload.Message, "Flight booked successfully!")
	assert.Equal(t, "Chicago", payload.Details.Departure)
	assert.Equal(t, "Paris", payload.Details.Destination)
	assert.Equal(t, 725.25, payload.Details.PaymentAmount)
	assert.Equal(t, "Completed", payload.Details.PaymentStatus)

	flight, err := store.GetFlight(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, flight.SeatsAvailable)

	booking, err := store.GetBooking(ctx, payload.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "1111", booking.CardLastFour)
}
