package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL points at the free exchangerate-api endpoint.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4"

// ErrUpstream indicates the exchange rate service was unreachable or
// returned an error.
var ErrUpstream = errors.New("exchange rate service unavailable")

// Rates is the upstream response for a base currency: the full table of
// conversion rates and the upstream update timestamp.
type Rates struct {
	Base            string             `json:"base"`
	Rates           map[string]float64 `json:"rates"`
	TimeLastUpdated int64              `json:"time_last_updated"`
}

// Rate returns the conversion rate to the target currency.
func (r *Rates) Rate(target string) (float64, bool) {
	rate, ok := r.Rates[target]
	return rate, ok
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the exchange rate service. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Latest fetches the current rate table for a base currency. Any upstream
// failure (network, non-2xx status, undecodable body) is reported as
// ErrUpstream.
func (c *Client) Latest(ctx context.Context, base string) (*Rates, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/latest/%s", c.baseURL, base),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var result Rates
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	return &result, nil
}
