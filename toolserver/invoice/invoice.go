// Package invoice renders booking invoices as PDFs over MCP. Flight details
// on the invoice are synthesized; this server never reads flight_info.
package invoice

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	inventoryx "github.com/wanderkit/concierge/inventory"
	"github.com/wanderkit/concierge/pdfgen"
)

const serverName = "InvoiceGenerator"

var invoiceAirlines = []string{
	"American Airlines", "Delta Air Lines", "United Airlines", "British Airways",
}

var invoiceCities = []string{
	"New York", "Los Angeles", "Chicago", "Miami", "London", "Paris", "Tokyo",
}

type handlers struct {
	store *inventoryx.Store
	dir   string
	now   func() time.Time
	rng   *rand.Rand
}

// Option tweaks handler internals; used by tests to pin time and randomness.
type Option func(*handlers)

func WithClock(now func() time.Time) Option {
	return func(h *handlers) { h.now = now }
}

func WithRand(rng *rand.Rand) Option {
	return func(h *handlers) { h.rng = rng }
}

func New(store *inventoryx.Store, dir, version string, opts ...Option) *server.MCPServer {
	h := &handlers{
		store: store,
		dir:   dir,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(h)
	}

	srv := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("generate_invoice",
		mcp.WithDescription("Generate a simple invoice PDF for a flight booking."),
		mcp.WithString("customer_id", mcp.Required(), mcp.Description("The unique identifier for the customer")),
		mcp.WithNumber("flight_id", mcp.Required(), mcp.Description("The ID of the flight booked")),
		mcp.WithNumber("booking_id", mcp.Required(), mcp.Description("The ID of the booking")),
		mcp.WithNumber("payment_amount", mcp.Required(), mcp.Description("The amount paid for the booking")),
		mcp.WithString("card_last_four", mcp.Required(), mcp.Description("The last four digits of the credit card used")),
	), h.generateInvoice)

	return srv
}

func (h *handlers) generateInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customerID := strings.TrimSpace(req.GetString("customer_id", ""))
	cardLastFour := strings.TrimSpace(req.GetString("card_last_four", ""))
	bookingID, bookingErr := req.RequireInt("booking_id")
	paymentAmount, paymentErr := req.RequireFloat("payment_amount")
	if _, err := req.RequireInt("flight_id"); err != nil ||
		bookingErr != nil || paymentErr != nil || customerID == "" || cardLastFour == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	now := h.now()
	data := pdfgen.InvoiceData{
		InvoiceNumber: newInvoiceNumber(),
		InvoiceDate:   now.Format(time.DateOnly),
		BookingID:     int64(bookingID),
		CustomerID:    customerID,
		PaymentAmount: paymentAmount,
		CardLastFour:  cardLastFour,
	}
	h.fillFlightDetails(&data, now)

	path, err := pdfgen.RenderInvoice(h.dir, data)
	if err != nil {
		log.Error().Err(err).Int("booking_id", bookingID).Msg("invoice render failed")
		return mcp.NewToolResultError(fmt.Sprintf("Invoice generation failed: %v", err)), nil
	}

	// Best effort: the PDF is the artifact of record, the row is bookkeeping.
	if err := h.store.RecordInvoice(ctx, &inventoryx.Invoice{
		BookingID:     int64(bookingID),
		InvoiceNumber: data.InvoiceNumber,
		InvoiceDate:   data.InvoiceDate,
		Filename:      filepath.Base(path),
	}); err != nil {
		log.Warn().Err(err).Str("invoice", data.InvoiceNumber).Msg("invoice row not recorded")
	}

	raw, err := json.Marshal(map[string]any{
		"success":        true,
		"invoice_number": data.InvoiceNumber,
		"invoice_date":   data.InvoiceDate,
		"filename":       filepath.Base(path),
		"path":           path,
		"message":        fmt.Sprintf("Invoice generated successfully: %s", data.InvoiceNumber),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (h *handlers) fillFlightDetails(data *pdfgen.InvoiceData, now time.Time) {
	airline := invoiceAirlines[h.rng.Intn(len(invoiceAirlines))]
	departure := invoiceCities[h.rng.Intn(len(invoiceCities))]
	arrival := departure
	for arrival == departure {
		arrival = invoiceCities[h.rng.Intn(len(invoiceCities))]
	}

	data.FlightNumber = fmt.Sprintf("FL%d", 1000+h.rng.Intn(9000))
	data.Airline = airline
	data.DepartureCity = departure
	data.ArrivalCity = arrival
	data.DepartureDate = now.AddDate(0, 0, 1+h.rng.Intn(30)).Format(time.DateOnly)
	data.DepartureTime = fmt.Sprintf("%02d:%02d", 6+h.rng.Intn(17), h.rng.Intn(60))
}

func newInvoiceNumber() string {
	id := uuid.New()
	return "INV-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
