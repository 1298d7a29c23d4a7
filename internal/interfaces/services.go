// Package interfaces defines service contracts for Advisor
package interfaces

import (
	"context"

	"github.com/bobmcallan/advisor/internal/models"
)

// MarketGateway resolves a symbol and period into validated market
// data, or a typed failure (market.NoDataError, market.FetchError).
type MarketGateway interface {
	// GetStockData fetches the series and snapshot for a symbol over a period
	GetStockData(ctx context.Context, symbol string, period models.Period) (*models.StockData, error)

	// HasLivePrice reports whether the provider confirms a live price
	// for the symbol. Used by extraction to validate candidates; any
	// provider error counts as "no".
	HasLivePrice(ctx context.Context, symbol string) bool
}

// TickerExtractor maps free text to zero or one validated symbol.
type TickerExtractor interface {
	// Extract returns the first validated symbol, or query.ErrNoSymbol
	// when no tier produces one.
	Extract(ctx context.Context, text string) (string, error)
}

// AssistantService runs the full query pipeline.
type AssistantService interface {
	// Answer resolves the query, fetches market data when a symbol is
	// found, and returns the assembled response including the
	// language-model answer.
	Answer(ctx context.Context, query string) (*AssistantResponse, error)

	// Compare runs the two-instrument pipeline.
	Compare(ctx context.Context, symbolA, symbolB string, period models.Period, query string) (*AssistantResponse, error)

	// GetComparison fetches both sides and builds the comparison
	// without invoking the language model. Used for chart rendering.
	GetComparison(ctx context.Context, symbolA, symbolB string, period models.Period) *models.ComparisonResult
}

// AssistantResponse is the pipeline's terminal product handed to the UI.
type AssistantResponse struct {
	Mode       string                   `json:"mode"` // "stock", "comparison", or "general"
	Query      string                   `json:"query"`
	Symbol     string                   `json:"symbol,omitempty"`
	Period     models.Period            `json:"period,omitempty"`
	Report     *models.StockReport      `json:"report,omitempty"`
	Comparison *models.ComparisonResult `json:"comparison,omitempty"`
	Request    *models.AnalysisRequest  `json:"request"`
	Answer     string                   `json:"answer"`
	Notice     string                   `json:"notice,omitempty"` // why the pipeline fell back, when it did
}
