// Package interfaces defines service contracts for Advisor
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/advisor/internal/models"
)

// MarketDataClient provides access to the market-data provider.
type MarketDataClient interface {
	// GetEOD retrieves end-of-day price data
	GetEOD(ctx context.Context, symbol string, opts ...EODOption) ([]models.Bar, error)

	// GetLiveQuote retrieves the current price snapshot
	GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error)

	// GetFundamentals retrieves descriptive snapshot metrics
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From  time.Time
	To    time.Time
	Order string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// WithOrder sets the bar ordering for EOD query
func WithOrder(order string) EODOption {
	return func(p *EODParams) {
		p.Order = order
	}
}

// LLMClient provides access to the language-model collaborator.
type LLMClient interface {
	// GenerateContent generates a free-text response from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
