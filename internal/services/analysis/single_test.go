package analysis

import (
	"testing"
	"time"

	"github.com/bobmcallan/advisor/internal/models"
)

func bars(n int) []models.Bar {
	out := make([]models.Bar, 0, n)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out = append(out, models.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	return out
}

func fullStockData() *models.StockData {
	return &models.StockData{
		Symbol: "AAPL",
		Period: models.Period1Year,
		Series: &models.StockSeries{Symbol: "AAPL", Bars: bars(30)},
		Snapshot: &models.StockSnapshot{
			Symbol:       "AAPL",
			Name:         "Apple Inc",
			CurrentPrice: models.MetricOf(129),
			High52Week:   models.MetricOf(140),
			Low52Week:    models.MetricOf(90),
			MarketCap:    models.MetricOf(2_500_000_000_000),
			PERatio:      models.MetricOf(31.4),
			Sector:       "Technology",
		},
	}
}

func TestBuildStockReport(t *testing.T) {
	report := BuildStockReport(fullStockData())

	if report.Symbol != "AAPL" || report.Name != "Apple Inc" {
		t.Errorf("identity = %q %q", report.Symbol, report.Name)
	}
	if report.MarketCap != "$2,500,000,000,000.00" {
		t.Errorf("market cap = %q", report.MarketCap)
	}
	if !report.CurrentPrice.Valid || report.CurrentPrice.Value != 129 {
		t.Errorf("current price = %+v", report.CurrentPrice)
	}
	if report.Sector != "Technology" {
		t.Errorf("sector = %q", report.Sector)
	}
	if report.Period != models.Period1Year {
		t.Errorf("period = %s", report.Period)
	}
}

func TestBuildStockReportTrailingCloses(t *testing.T) {
	report := BuildStockReport(fullStockData())

	if len(report.RecentCloses) != 5 {
		t.Fatalf("recent closes = %d, want 5", len(report.RecentCloses))
	}
	// The tail must be the most recent bars, still ascending.
	if report.RecentCloses[4].Close != 129 {
		t.Errorf("last close = %v, want 129", report.RecentCloses[4].Close)
	}
	if report.RecentCloses[0].Close != 125 {
		t.Errorf("first of tail = %v, want 125", report.RecentCloses[0].Close)
	}
}

func TestBuildStockReportShortSeries(t *testing.T) {
	data := fullStockData()
	data.Series.Bars = bars(3)

	report := BuildStockReport(data)
	if len(report.RecentCloses) != 3 {
		t.Errorf("recent closes = %d, want all 3", len(report.RecentCloses))
	}
}

// Unknown metrics render as "not available" and are never coerced to
// zero or dropped.
func TestBuildStockReportMissingFields(t *testing.T) {
	data := fullStockData()
	data.Snapshot = &models.StockSnapshot{Symbol: "AAPL"}

	report := BuildStockReport(data)

	if report.MarketCap != models.NotAvailable {
		t.Errorf("market cap = %q, want %q", report.MarketCap, models.NotAvailable)
	}
	if report.Sector != models.NotAvailable {
		t.Errorf("sector = %q, want %q", report.Sector, models.NotAvailable)
	}
	if report.CurrentPrice.Valid {
		t.Error("absent price must stay absent")
	}
	if report.PERatio.String() != models.NotAvailable {
		t.Errorf("P/E renders as %q, want %q", report.PERatio.String(), models.NotAvailable)
	}
	if report.Name != "AAPL" {
		t.Errorf("name falls back to symbol, got %q", report.Name)
	}
}
