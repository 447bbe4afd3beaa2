// Package itinerary exposes tourist-attraction lookup and itinerary PDF
// export over MCP.
package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wanderkit/concierge/pdfgen"
)

const serverName = "ItineraryPlanner"

const attractionLimit = 10

// AttractionFinder is what the places client provides.
type AttractionFinder interface {
	TopAttractions(ctx context.Context, city string, limit int) ([]string, error)
}

type handlers struct {
	finder AttractionFinder
	dir    string
	now    func() time.Time
}

type Option func(*handlers)

func WithClock(now func() time.Time) Option {
	return func(h *handlers) { h.now = now }
}

func New(finder AttractionFinder, dir, version string, opts ...Option) *server.MCPServer {
	h := &handlers{finder: finder, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}

	srv := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("get_tourist_attractions",
		mcp.WithDescription("Get the top tourist attractions for a city to build an itinerary from."),
		mcp.WithString("city", mcp.Required(), mcp.Description("The destination city name")),
	), h.touristAttractions)

	srv.AddTool(mcp.NewTool("save_itinerary_plan",
		mcp.WithDescription("Save the itinerary plan as a PDF."),
		mcp.WithString("plan", mcp.Required(), mcp.Description("The natural language plan created for the trip")),
	), h.savePlan)

	return srv
}

func (h *handlers) touristAttractions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city := strings.TrimSpace(req.GetString("city", ""))
	if city == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	names, err := h.finder.TopAttractions(ctx, city, attractionLimit)
	if err != nil {
		log.Error().Err(err).Str("city", city).Msg("attraction lookup failed")
		return mcp.NewToolResultError(fmt.Sprintf("Attraction lookup failed: %v", err)), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var list strings.Builder
	for i, name := range names {
		fmt.Fprintf(&list, "%d. %s\n", i+1, name)
	}
	return mcp.NewToolResultText(strings.TrimRight(list.String(), "\n")), nil
}

func (h *handlers) savePlan(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan := req.GetString("plan", "")
	if strings.TrimSpace(plan) == "" {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	path, err := pdfgen.RenderItinerary(h.dir, plan, h.now())
	if err != nil {
		log.Error().Err(err).Msg("itinerary render failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save plan: %v", err)), nil
	}

	raw, err := json.Marshal(map[string]any{
		"success":  true,
		"pdf_path": path,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
