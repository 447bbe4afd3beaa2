package hotel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/wanderkit/concierge/agent/contract"
	amadeusx "github.com/wanderkit/concierge/pkg/amadeus"
)

type fakeAPI struct {
	hotels   []amadeusx.Hotel
	offers   json.RawMessage
	err      error
	cityCode string
	hotelID  string
	adults   string
}

func (f *fakeAPI) HotelsByCity(_ context.Context, cityCode string) ([]amadeusx.Hotel, error) {
	f.cityCode = cityCode
	return f.hotels, f.err
}

func (f *fakeAPI) HotelOffers(_ context.Context, hotelID, adults string) (json.RawMessage, error) {
	f.hotelID = hotelID
	f.adults = adults
	return f.offers, f.err
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
	initReq.Params.ClientInfo = mcp.Implementation{Name: "hotel-test", Version: "0.0.0"}
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

func someHotels(n int) []amadeusx.Hotel {
	hotels := make([]amadeusx.Hotel, 0, n)
	for i := 0; i < n; i++ {
		hotels = append(hotels, amadeusx.Hotel{
			Name:    fmt.Sprintf("Hotel %d", i+1),
			HotelID: fmt.Sprintf("HT%03d", i+1),
		})
	}
	return hotels
}

func TestSearchHotelsByCityCapsListAtFive(t *testing.T) {
	api := &fakeAPI{hotels: someHotels(8)}
	srv := New(api, "test")

	text, isErr := callTool(t, srv, "search_hotels_by_city", map[string]any{"city_code": "NYC"})
	require.False(t, isErr)
	assert.Equal(t, "NYC", api.cityCode)

	var payload struct {
		Hotels []amadeusx.Hotel `json:"hotels"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	require.Len(t, payload.Hotels, 5)
	assert.Equal(t, "Hotel 1", payload.Hotels[0].Name)
	assert.Equal(t, "HT005", payload.Hotels[4].HotelID)
}

func TestSearchHotelsByCityMissingCode(t *testing.T) {
	srv := New(&fakeAPI{}, "test")

	text, isErr := callTool(t, srv, "search_hotels_by_city", map[string]any{"city_code": ""})
	assert.True(t, isErr)
	assert.Equal(t, "Missing required parameters", text)
}

func TestSearchHotelsByCityUpstreamFailure(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("%w: amadeus returned status 500", contractx.ErrUpstream)}
	srv := New(api, "test")

	text, isErr := callTool(t, srv, "search_hotels_by_city", map[string]any{"city_code": "MAA"})
	assert.True(t, isErr)
	assert.Contains(t, text, "amadeus returned status 500")
}

func TestSearchHotelOffersDefaultsAdults(t *testing.T) {
	offers := json.RawMessage(`[{"hotel":{"hotelId":"HT001"},"offers":[{"price":{"total":"250.00"}}]}]`)
	api := &fakeAPI{offers: offers}
	srv := New(api, "test")

	text, isErr := callTool(t, srv, "search_hotel_offers", map[string]any{"hotel_id": "HT001"})
	require.False(t, isErr)
	assert.Equal(t, "HT001", api.hotelID)
	assert.Equal(t, "1", api.adults)
	assert.JSONEq(t, string(offers), text)
}

func TestSearchHotelOffersPassesAdultsThrough(t *testing.T) {
	api := &fakeAPI{offers: json.RawMessage(`[]`)}
	srv := New(api, "test")

	_, isErr := callTool(t, srv, "search_hotel_offers", map[string]any{
		"hotel_id": "HT002",
		"adults":   "3",
	})
	require.False(t, isErr)
	assert.Equal(t, "3", api.adults)
}

func TestSearchHotelOffersMissingHotelID(t *testing.T) {
	srv := New(&fakeAPI{}, "test")

	text, isErr := callTool(t, srv, "search_hotel_offers", map[string]any{})
	assert.True(t, isErr)
	assert.Equal(t, "Missing required parameters", text)
}
