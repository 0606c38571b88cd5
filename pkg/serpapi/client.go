package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://serpapi.com"

var ErrNotConfigured = errors.New("serpapi api key is not configured")

// UpstreamError is a non-2xx answer from SerpApi.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("serpapi error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("serpapi error: status=%d body=%s", e.StatusCode, e.Body)
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

type HotelQuery struct {
	Query    string
	CheckIn  string
	CheckOut string
	Adults   int
}

// GoogleHotels runs a google_hotels search priced in USD and returns the raw JSON document.
func (c Client) GoogleHotels(ctx context.Context, q HotelQuery) (map[string]any, error) {
	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("q", q.Query)
	params.Set("check_in_date", q.CheckIn)
	params.Set("check_out_date", q.CheckOut)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("currency", "USD")
	params.Set("gl", "us")
	params.Set("hl", "en")

	var out map[string]any
	if err := c.getJSON(ctx, "/search.json", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c Client) getJSON(ctx context.Context, path string, params url.Values, respBody any) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	params.Set("api_key", c.APIKey)

	u := strings.TrimRight(c.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: truncate(string(b), 512)}
	}
	if err := json.Unmarshal(b, respBody); err != nil {
		return fmt.Errorf("decode serpapi response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
