// Package cancellation exposes booking cancellation over MCP.
package cancellation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
	inventoryx "github.com/wanderkit/concierge/inventory"
)

const serverName = "FlightCancellation"

type handlers struct {
	store *inventoryx.Store
}

func New(store *inventoryx.Store, version string) *server.MCPServer {
	h := &handlers{store: store}

	srv := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("cancel_flight_booking",
		mcp.WithDescription("Cancel a flight booking by removing it from the database."),
		mcp.WithNumber("booking_id", mcp.Required(), mcp.Description("The ID of the booking to cancel")),
	), h.cancelBooking)

	return srv
}

func (h *handlers) cancelBooking(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookingID, err := req.RequireInt("booking_id")
	if err != nil || bookingID <= 0 {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	if err := h.store.Cancel(ctx, int64(bookingID)); err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return mcp.NewToolResultError("Booking not found"), nil
		}
		log.Error().Err(err).Int("booking_id", bookingID).Msg("cancellation failed")
		return mcp.NewToolResultError(fmt.Sprintf("Cancellation failed: %v", err)), nil
	}

	raw, err := json.Marshal(map[string]any{
		"success": true,
		"message": fmt.Sprintf("Booking %d has been cancelled successfully", bookingID),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
