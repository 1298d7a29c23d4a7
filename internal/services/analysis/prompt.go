package analysis

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
)

// BuildStockRequest renders the single-instrument analytical request.
// It restates the user's question, the snapshot summary, and the
// trailing close-price series, then asks for a direct answer, a
// recent-performance analysis, and caveats. No analysis happens here;
// the reasoning is the collaborator's.
func BuildStockRequest(query string, report *models.StockReport) *models.AnalysisRequest {
	var sb strings.Builder

	sb.WriteString("You are a financial assistant. A user asked:\n\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", query))

	sb.WriteString(fmt.Sprintf("Here is current data for %s (%s):\n", report.Name, report.Symbol))
	sb.WriteString(fmt.Sprintf("- Current Price: %s\n", dollar(report.CurrentPrice)))
	sb.WriteString(fmt.Sprintf("- 52-Week Range: %s - %s\n", dollar(report.Low52Week), dollar(report.High52Week)))
	sb.WriteString(fmt.Sprintf("- Market Cap: %s\n", report.MarketCap))
	sb.WriteString(fmt.Sprintf("- P/E Ratio: %s\n", report.PERatio))
	sb.WriteString(fmt.Sprintf("- Sector: %s\n", report.Sector))

	if len(report.RecentCloses) > 0 {
		sb.WriteString("\nRecent closing prices:\n")
		for _, bar := range report.RecentCloses {
			sb.WriteString(fmt.Sprintf("- %s: $%.2f\n", bar.Date.Format("2006-01-02"), bar.Close))
		}
	}

	sb.WriteString("\nPlease provide:\n")
	sb.WriteString("1. A direct answer to the user's question\n")
	sb.WriteString("2. An analysis of the recent performance\n")
	sb.WriteString("3. Any relevant caveats an investor should keep in mind\n")

	return &models.AnalysisRequest{Prompt: sb.String(), Mode: "stock"}
}

// BuildComparisonRequest renders the two-instrument analytical request,
// naming both instruments and their current prices.
func BuildComparisonRequest(query string, comparison *models.ComparisonResult) *models.AnalysisRequest {
	var sb strings.Builder

	sb.WriteString("You are a financial assistant. A user asked:\n\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", query))

	sb.WriteString(fmt.Sprintf("Compare %s and %s for an investor.\n\n", comparison.SideA.Symbol, comparison.SideB.Symbol))

	writeSide(&sb, comparison.SideA)
	writeSide(&sb, comparison.SideB)

	if comparison.PriceDifference.Valid {
		sb.WriteString(fmt.Sprintf("Price difference (%s minus %s): $%.2f (%s)\n\n",
			comparison.SideA.Symbol, comparison.SideB.Symbol,
			comparison.PriceDifference.Value, comparison.Direction))
	} else {
		sb.WriteString("Price difference: undefined (a current price is missing on one side)\n\n")
	}

	sb.WriteString("Please provide a detailed comparison covering valuation, recent performance, ")
	sb.WriteString("and the considerations an investor should weigh when choosing between them.\n")

	return &models.AnalysisRequest{Prompt: sb.String(), Mode: "comparison"}
}

// BuildGenericRequest renders the fallback request used when no symbol
// could be resolved from the query, or when market data for a resolved
// symbol was unavailable.
func BuildGenericRequest(query string) *models.AnalysisRequest {
	var sb strings.Builder

	sb.WriteString("You are a financial assistant helping new and experienced investors make informed decisions. ")
	sb.WriteString("A user asked:\n\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", query))
	sb.WriteString("No specific stock could be identified in the question, so answer with general, ")
	sb.WriteString("educational financial guidance. Ask the user to name a company or ticker symbol ")
	sb.WriteString("if they want data-backed analysis of a specific stock. ")
	sb.WriteString("Remind them this is general insight, not professional financial advice.\n")

	return &models.AnalysisRequest{Prompt: sb.String(), Mode: "general"}
}

// writeSide renders one comparison side, reporting a fetch failure in
// place of data when that side failed.
func writeSide(sb *strings.Builder, side models.ComparisonSide) {
	if side.Error != "" {
		sb.WriteString(fmt.Sprintf("%s: data unavailable (%s)\n\n", side.Symbol, side.Error))
		return
	}
	if side.Snapshot == nil {
		sb.WriteString(fmt.Sprintf("%s: data unavailable\n\n", side.Symbol))
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%s):\n", side.Snapshot.DisplayName(), side.Symbol))
	sb.WriteString(fmt.Sprintf("- Current Price: %s\n", dollar(side.Snapshot.CurrentPrice)))
	sb.WriteString(fmt.Sprintf("- P/E Ratio: %s\n", side.Snapshot.PERatio))
	sector := side.Snapshot.Sector
	if sector == "" {
		sector = models.NotAvailable
	}
	sb.WriteString(fmt.Sprintf("- Sector: %s\n\n", sector))
}

// dollar renders a metric as a dollar amount, or "not available".
func dollar(m models.Metric) string {
	if !m.Valid {
		return models.NotAvailable
	}
	return fmt.Sprintf("$%.2f", m.Value)
}
