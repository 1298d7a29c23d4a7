package analysis

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/advisor/internal/models"
)

var comparisonColors = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("dc2626"), // red-600
}

// RenderComparisonChart renders the tagged series of a comparison as a
// PNG line chart, one series per symbol. Dates are plotted exactly as
// each series carries them; a date missing on one side simply has no
// point there.
func RenderComparisonChart(comparison *models.ComparisonResult) ([]byte, error) {
	tagged := comparison.TaggedSeries()

	var series []chart.Series
	for i, s := range tagged {
		if len(s.Bars) < 2 {
			continue
		}
		ts := chart.TimeSeries{
			Name: s.Symbol,
			Style: chart.Style{
				StrokeColor: comparisonColors[i%len(comparisonColors)],
				StrokeWidth: 2.0,
			},
		}
		for _, bar := range s.Bars {
			ts.XValues = append(ts.XValues, bar.Date)
			ts.YValues = append(ts.YValues, bar.Close)
		}
		series = append(series, ts)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no series with enough data points to chart")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s vs %s", comparison.SideA.Symbol, comparison.SideB.Symbol),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
