// Package hotel exposes Amadeus hotel search over MCP. Upstream failures
// surface as error results; nothing is cached.
package hotel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	amadeusx "github.com/wanderkit/concierge/pkg/amadeus"
)

const serverName = "HotelBooking"

const hotelListLimit = 5

// HotelAPI is the slice of the Amadeus client the handlers need.
type HotelAPI interface {
	HotelsByCity(ctx context.Context, cityCode string) ([]amadeusx.Hotel, error)
	HotelOffers(ctx context.Context, hotelID, adults string) (json.RawMessage, error)
}

type handlers struct {
	api HotelAPI
}

func New(api HotelAPI, version string) *server.MCPServer {
	h := &handlers{api: api}

	srv := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("search_hotels_by_city",
		mcp.WithDescription("Search for hotels in a given city using the Amadeus API."),
		mcp.WithString("city_code", mcp.Required(), mcp.Description("The IATA city code (e.g. 'MAA' for Chennai, 'NYC' for New York)")),
	), h.searchHotelsByCity)

	srv.AddTool(mcp.NewTool("search_hotel_offers",
		mcp.WithDescription("Search for offers in a specific hotel using the Amadeus API."),
		mcp.WithString("hotel_id", mcp.Required(), mcp.Description("The Amadeus hotel ID")),
		mcp.WithString("adults", mcp.Description("Number of adults (default: \"1\")")),
	), h.searchHotelOffers)

	return srv
}

func (h *handlers) searchHotelsByCity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cityCode := strings.TrimSpace(req.GetString("city_code", ""))
	if cityCode == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	hotels, err := h.api.HotelsByCity(ctx, cityCode)
	if err != nil {
		log.Error().Err(err).Str("city_code", cityCode).Msg("hotel search failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hotels) > hotelListLimit {
		hotels = hotels[:hotelListLimit]
	}

	raw, err := json.Marshal(map[string]any{"hotels": hotels})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (h *handlers) searchHotelOffers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hotelID := strings.TrimSpace(req.GetString("hotel_id", ""))
	if hotelID == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}
	adults := strings.TrimSpace(req.GetString("adults", "1"))

	offers, err := h.api.HotelOffers(ctx, hotelID, adults)
	if err != nil {
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("hotel offers lookup failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(offers)), nil
}
