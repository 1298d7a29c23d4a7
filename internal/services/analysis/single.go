// Package analysis assembles analyzer payloads and renders the
// analytical request handed to the language-model collaborator.
package analysis

import (
	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/models"
)

// recentBarCount is how many trailing bars the descriptive payload
// carries.
const recentBarCount = 5

// BuildStockReport assembles the single-instrument descriptive payload.
// Absent snapshot fields render as "not available"; the payload never
// turns an unknown into a numeric zero or drops the key.
func BuildStockReport(data *models.StockData) *models.StockReport {
	snapshot := data.Snapshot

	marketCap := models.NotAvailable
	if snapshot.MarketCap.Valid {
		marketCap = common.FormatMoney(snapshot.MarketCap.Value)
	}

	sector := snapshot.Sector
	if sector == "" {
		sector = models.NotAvailable
	}

	return &models.StockReport{
		Symbol:       data.Symbol,
		Name:         snapshot.DisplayName(),
		CurrentPrice: snapshot.CurrentPrice,
		High52Week:   snapshot.High52Week,
		Low52Week:    snapshot.Low52Week,
		MarketCap:    marketCap,
		PERatio:      snapshot.PERatio,
		Sector:       sector,
		RecentCloses: data.Series.Tail(recentBarCount),
		Period:       data.Period,
	}
}
