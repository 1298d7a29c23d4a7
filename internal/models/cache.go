package models

import "time"

// LiveQuote holds a live price snapshot from the provider.
type LiveQuote struct {
	Symbol        string    `json:"symbol"`
	Close         float64   `json:"close"` // current/last price
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_p"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Fundamentals holds descriptive metrics from the provider's
// fundamentals endpoint. Absent fields stay absent.
type Fundamentals struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name,omitempty"`
	Sector     string `json:"sector,omitempty"`
	MarketCap  Metric `json:"market_cap"`
	PERatio    Metric `json:"pe_ratio"`
	High52Week Metric `json:"high_52_week"`
	Low52Week  Metric `json:"low_52_week"`
}

// MarketData is the cached provider payload for one symbol. Bars are
// stored ascending by date covering the widest window fetched so far;
// per-component timestamps gate freshness so stale components are
// refetched rather than silently served.
type MarketData struct {
	Symbol       string        `json:"symbol"`
	EOD          []Bar         `json:"eod"`
	EODFrom      time.Time     `json:"eod_from"` // start of the cached bar window
	Quote        *LiveQuote    `json:"quote,omitempty"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`

	EODUpdatedAt          time.Time `json:"eod_updated_at"`
	QuoteUpdatedAt        time.Time `json:"quote_updated_at"`
	FundamentalsUpdatedAt time.Time `json:"fundamentals_updated_at"`
	LastUpdated           time.Time `json:"last_updated"`
}
