package analysis

import (
	"github.com/bobmcallan/advisor/internal/models"
)

// DirectionEqual labels a comparison whose price difference is exactly
// zero. Otherwise the direction names the higher symbol.
const DirectionEqual = "equal"

// BuildComparison aligns two sides into a ComparisonResult. Each side
// may carry a fetch failure instead of data; the comparison is still
// produced and the failed side reported as-is. The price difference is
// side A minus side B and stays absent when either current price is
// missing. An undefined difference is never reported as zero.
func BuildComparison(sideA, sideB models.ComparisonSide, period models.Period) *models.ComparisonResult {
	result := &models.ComparisonResult{
		SideA:  sideA,
		SideB:  sideB,
		Period: period,
	}

	priceA, okA := currentPrice(sideA)
	priceB, okB := currentPrice(sideB)
	if !okA || !okB {
		return result
	}

	diff := priceA - priceB
	result.PriceDifference = models.MetricOf(diff)
	switch {
	case diff > 0:
		result.Direction = sideA.Symbol + " higher"
	case diff < 0:
		result.Direction = sideB.Symbol + " higher"
	default:
		result.Direction = DirectionEqual
	}

	return result
}

func currentPrice(side models.ComparisonSide) (float64, bool) {
	if side.Snapshot == nil || !side.Snapshot.CurrentPrice.Valid {
		return 0, false
	}
	return side.Snapshot.CurrentPrice.Value, true
}
