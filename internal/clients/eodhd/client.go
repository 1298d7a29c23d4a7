// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// optFloat handles JSON values that may be a number, a string, "N/A",
// or null. Absence is preserved rather than collapsed to zero.
type optFloat struct {
	value float64
	valid bool
}

func (f *optFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value, f.valid = num, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" || s == "NA" {
			f.value, f.valid = 0, false
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.value, f.valid = 0, false
			return nil
		}
		f.value, f.valid = num, true
		return nil
	}
	// null or anything else: absent
	f.value, f.valid = 0, false
	return nil
}

func (f optFloat) metric() models.Metric {
	if !f.valid {
		return models.Metric{}
	}
	return models.MetricOf(f.value)
}

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetEOD retrieves end-of-day price data, ascending by date unless
// overridden with WithOrder.
func (c *Client) GetEOD(ctx context.Context, symbol string, opts ...interfaces.EODOption) ([]models.Bar, error) {
	params := &interfaces.EODParams{
		Order: "a",
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", "d")
	urlParams.Set("order", params.Order)

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", symbol)

	var raw []eodBarResponse
	if err := c.get(ctx, path, urlParams, &raw); err != nil {
		return nil, err
	}

	bars := make([]models.Bar, len(raw))
	for i, bar := range raw {
		date, _ := time.Parse("2006-01-02", bar.Date)
		bars[i] = models.Bar{
			Date:     date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjustedClose,
			Volume:   bar.Volume,
		}
	}

	return bars, nil
}

// liveQuoteResponse represents the real-time endpoint response.
// Timestamp is a unix epoch; close may be "NA" for unknown symbols.
type liveQuoteResponse struct {
	Code          string   `json:"code"`
	Close         optFloat `json:"close"`
	PreviousClose optFloat `json:"previousClose"`
	Change        optFloat `json:"change"`
	ChangePct     optFloat `json:"change_p"`
	Volume        int64    `json:"volume"`
	Timestamp     int64    `json:"timestamp"`
}

// GetLiveQuote retrieves the current price snapshot for a symbol.
// A response without a usable close price is an error: the caller
// treats "no live price" and "transport failure" the same way during
// candidate validation.
func (c *Client) GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	path := fmt.Sprintf("/real-time/%s", symbol)

	var raw liveQuoteResponse
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}

	if !raw.Close.valid || raw.Close.value <= 0 {
		return nil, fmt.Errorf("no live price for %s", symbol)
	}

	return &models.LiveQuote{
		Symbol:        symbol,
		Close:         raw.Close.value,
		PreviousClose: raw.PreviousClose.value,
		Change:        raw.Change.value,
		ChangePct:     raw.ChangePct.value,
		Volume:        raw.Volume,
		Timestamp:     time.Unix(raw.Timestamp, 0).UTC(),
	}, nil
}

// fundamentalsResponse represents the API response structure
type fundamentalsResponse struct {
	General struct {
		Code   string `json:"Code"`
		Name   string `json:"Name"`
		Sector string `json:"Sector"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization optFloat `json:"MarketCapitalization"`
		PERatio              optFloat `json:"PERatio"`
	} `json:"Highlights"`
	Technicals struct {
		High52Week optFloat `json:"52WeekHigh"`
		Low52Week  optFloat `json:"52WeekLow"`
	} `json:"Technicals"`
}

// GetFundamentals retrieves descriptive snapshot metrics for a symbol.
// Fields the provider omits stay absent in the result.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	path := fmt.Sprintf("/fundamentals/%s", symbol)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &models.Fundamentals{
		Symbol:     symbol,
		Name:       resp.General.Name,
		Sector:     resp.General.Sector,
		MarketCap:  resp.Highlights.MarketCapitalization.metric(),
		PERatio:    resp.Highlights.PERatio.metric(),
		High52Week: resp.Technicals.High52Week.metric(),
		Low52Week:  resp.Technicals.Low52Week.metric(),
	}, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
