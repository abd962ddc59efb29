// Package finnhub implements a client for the Finnhub stock API.
// Finnhub offers real-time quotes, company fundamentals, earnings
// calendars, and company news via a REST API with API key authentication.
//
// Free tier: 60 requests/minute.
// Docs: https://finnhub.io/docs/api
package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the production Finnhub API endpoint.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 10 * time.Second
)

// ErrHTTP wraps a non-2xx upstream response with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client calls the Finnhub REST API. The fetch methods degrade rather
// than fail: a transport error, a non-2xx status, or an undecodable body
// is logged and an empty result returned, so one bad symbol or a flaky
// upstream never fails a whole batch. Callers that need to distinguish
// "failed" from "no data" cannot; that conflation is the contract.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL and API key.
// Zero values fall back to DefaultBaseURL and DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Quote returns the real-time quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) Quote {
	var q Quote
	params := url.Values{"symbol": {symbol}}
	if err := c.get(ctx, "/quote", params, &q); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		return Quote{}
	}
	return q
}

// Metrics returns the raw metric object from /stock/metric for symbol.
func (c *Client) Metrics(ctx context.Context, symbol string) map[string]any {
	var resp metricResponse
	params := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := c.get(ctx, "/stock/metric", params, &resp); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Metrics fetch failed")
		return map[string]any{}
	}
	if resp.Metric == nil {
		return map[string]any{}
	}
	return resp.Metric
}

// EarningsCalendar returns the earnings calendar entries for symbol
// between from and to, both YYYY-MM-DD inclusive.
func (c *Client) EarningsCalendar(ctx context.Context, symbol, from, to string) []EarningsEntry {
	var resp earningsResponse
	params := url.Values{"symbol": {symbol}, "from": {from}, "to": {to}}
	if err := c.get(ctx, "/calendar/earnings", params, &resp); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Earnings calendar fetch failed")
		return nil
	}
	return resp.EarningsCalendar
}

// CompanyNews returns news articles for symbol between from and to,
// both YYYY-MM-DD, in upstream order (newest first).
func (c *Client) CompanyNews(ctx context.Context, symbol, from, to string) []NewsArticle {
	var articles []NewsArticle
	params := url.Values{"symbol": {symbol}, "from": {from}, "to": {to}}
	if err := c.get(ctx, "/company-news", params, &articles); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Company news fetch failed")
		return nil
	}
	return articles
}

// get performs a single GET against the API and decodes the JSON body
// into dest. The API key travels as the token query parameter on every
// call; error strings and logs carry the path only, never the full URL,
// so the key stays out of diagnostics.
func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, token included; keep the inner error only.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
