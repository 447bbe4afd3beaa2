// Package amadeus is a thin client for the two Amadeus self-service endpoints
// the hotel tools need: hotel list by city and hotel offers search.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	Key     string        `envconfig:"KEY" required:"true"`
	Secret  string        `envconfig:"SECRET" required:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://test.api.amadeus.com"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type Hotel struct {
	Name    string `json:"name"`
	HotelID string `json:"hotel_id"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("amadeus base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid amadeus base url: %w", err)
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, errors.New("amadeus api key is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("amadeus api secret is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		key:        strings.TrimSpace(cfg.Key),
		secret:     strings.TrimSpace(cfg.Secret),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// HotelsByCity lists hotels for an IATA city code such as NYC or MAA.
func (c *Client) HotelsByCity(ctx context.Context, cityCode string) ([]Hotel, error) {
	query := url.Values{"cityCode": {strings.TrimSpace(cityCode)}}
	raw, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Name    string `json:"name"`
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode hotel list: %v", contractx.ErrUpstream, err)
	}

	hotels := make([]Hotel, 0, len(payload.Data))
	for _, h := range payload.Data {
		hotels = append(hotels, Hotel{Name: h.Name, HotelID: h.HotelID})
	}
	return hotels, nil
}

// HotelOffers returns the raw offers payload for one hotel id. The agent
// formats it; the server passes it through untouched.
func (c *Client) HotelOffers(ctx context.Context, hotelID, adults string) (json.RawMessage, error) {
	if strings.TrimSpace(adults) == "" {
		adults = "1"
	}
	query := url.Values{
		"hotelIds": {strings.TrimSpace(hotelID)},
		"adults":   {strings.TrimSpace(adults)},
	}
	raw, err := c.get(ctx, "/v3/shopping/hotel-offers", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode hotel offers: %v", contractx.ErrUpstream, err)
	}
	if len(payload.Data) == 0 {
		return json.RawMessage("[]"), nil
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build amadeus request: %v", contractx.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: amadeus request: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read amadeus response: %v", contractx.ErrUpstream, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: amadeus status=%d body=%s", contractx.ErrUpstream, resp.StatusCode, string(raw))
	}
	return raw, nil
}

// token returns a cached client-credentials access token, refreshing when it
// is within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.key},
		"client_secret": {c.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request: %v", contractx.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", contractx.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token status=%d body=%s", contractx.ErrUpstream, resp.StatusCode, string(raw))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", contractx.ErrUpstream, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", contractx.ErrUpstream)
	}

	c.accessToken = payload.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
