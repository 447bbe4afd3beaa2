// Package places wraps the Google Places text-search endpoint used by the
// itinerary planner to look up tourist attractions.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	APIKey  string        `envconfig:"API" required:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://maps.googleapis.com/maps/api/place/textsearch/json"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.BaseURL)
	if endpoint == "" {
		return nil, errors.New("places endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid places endpoint: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("places api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
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

// TopAttractions returns the names of up to `limit` tourist attractions in
// the given city, in ranking order.
func (c *Client) TopAttractions(ctx context.Context, city string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{
		"query": {"tourist attractions in " + strings.TrimSpace(city)},
		"key":   {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build places request: %v", contractx.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: places request: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read places response: %v", contractx.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: places status=%d body=%s", contractx.ErrUpstream, resp.StatusCode, string(raw))
	}

	var payload struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode places response: %v", contractx.ErrUpstream, err)
	}

	names := make([]string, 0, limit)
	for _, place := range payload.Results {
		if len(names) == limit {
			break
		}
		names = append(names, place.Name)
	}
	return names, nil
}
