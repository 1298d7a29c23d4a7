package models

import (
	"time"
)

// Period is a named lookback window resolved against "now".
type Period string

const (
	Period1Week   Period = "1w"
	Period1Month  Period = "1mo"
	Period3Months Period = "3mo"
	Period6Months Period = "6mo"
	Period1Year   Period = "1y"
	Period5Years  Period = "5y"

	// DefaultPeriod applies when a query contains no period keyword.
	DefaultPeriod = Period1Year
)

// Range resolves the period to a concrete (start, end) pair anchored at now.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	switch p {
	case Period1Week:
		return now.AddDate(0, 0, -7), now
	case Period1Month:
		return now.AddDate(0, -1, 0), now
	case Period3Months:
		return now.AddDate(0, -3, 0), now
	case Period6Months:
		return now.AddDate(0, -6, 0), now
	case Period5Years:
		return now.AddDate(-5, 0, 0), now
	default:
		return now.AddDate(-1, 0, 0), now
	}
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case Period1Week, Period1Month, Period3Months, Period6Months, Period1Year, Period5Years:
		return true
	}
	return false
}

// Bar represents a single day's price data
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// StockSeries holds daily bars for one symbol over a resolved date
// range, ordered by ascending date. It may be shorter than the range
// when the market was closed, and is empty when the provider has no
// data at all.
type StockSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Tail returns the last n bars (the most recent ones).
func (s *StockSeries) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// StockSnapshot is a point-in-time set of descriptive metrics for a
// symbol. Numeric fields are Metrics: absent means the provider did not
// supply the value, which is distinct from zero.
type StockSnapshot struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name,omitempty"`
	CurrentPrice Metric    `json:"current_price"`
	High52Week   Metric    `json:"high_52_week"`
	Low52Week    Metric    `json:"low_52_week"`
	MarketCap    Metric    `json:"market_cap"`
	PERatio      Metric    `json:"pe_ratio"`
	Sector       string    `json:"sector,omitempty"`
	AsOf         time.Time `json:"as_of"`
}

// DisplayName returns the company name, falling back to the symbol.
func (s *StockSnapshot) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}

// StockData is the gateway's product for one symbol and period.
type StockData struct {
	Symbol   string         `json:"symbol"`
	Period   Period         `json:"period"`
	Series   *StockSeries   `json:"series"`
	Snapshot *StockSnapshot `json:"snapshot"`
}

// StockReport is the single-instrument analyzer's descriptive payload.
// Formatted fields render absent values as "not available".
type StockReport struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	CurrentPrice Metric `json:"current_price"`
	High52Week   Metric `json:"high_52_week"`
	Low52Week    Metric `json:"low_52_week"`
	MarketCap    string `json:"market_cap"` // thousands-separated, or "not available"
	PERatio      Metric `json:"pe_ratio"`
	Sector       string `json:"sector"`
	RecentCloses []Bar  `json:"recent_closes"` // most recent 5 bars
	Period       Period `json:"period"`
}

// ComparisonSide is one instrument's contribution to a comparison.
// Error is set when that side's fetch failed; the other side is still
// reported.
type ComparisonSide struct {
	Symbol   string         `json:"symbol"`
	Snapshot *StockSnapshot `json:"snapshot,omitempty"`
	Series   *StockSeries   `json:"series,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ComparisonResult aligns two instruments and derived metrics.
// PriceDifference is A minus B and is absent when either side's current
// price is missing. Direction names the higher symbol, or "equal".
type ComparisonResult struct {
	SideA           ComparisonSide `json:"side_a"`
	SideB           ComparisonSide `json:"side_b"`
	PriceDifference Metric         `json:"price_difference"`
	Direction       string         `json:"direction"`
	Period          Period         `json:"period"`
}

// TaggedSeries concatenates both sides' series, each tagged with its
// owning symbol. No date alignment or interpolation is performed;
// consumers treat a date missing on one side as absent, not zero.
func (c *ComparisonResult) TaggedSeries() []StockSeries {
	var out []StockSeries
	if c.SideA.Series != nil {
		out = append(out, StockSeries{Symbol: c.SideA.Symbol, Bars: c.SideA.Series.Bars})
	}
	if c.SideB.Series != nil {
		out = append(out, StockSeries{Symbol: c.SideB.Symbol, Bars: c.SideB.Series.Bars})
	}
	return out
}

// AnalysisRequest is the rendered natural-language request handed to
// the language-model collaborator. It is consumed exactly once.
type AnalysisRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"` // "stock", "comparison", or "general"
}
