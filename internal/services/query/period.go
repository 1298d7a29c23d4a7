// Package query resolves free-text questions into instrument symbols
// and lookback periods.
package query

import (
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
)

// periodKeyword pairs a lowercase keyword with its period. The slice
// order is the tie-break: the first keyword found as a substring wins,
// so longer phrases ("5 year") are declared before the bare words they
// contain ("year").
type periodKeyword struct {
	keyword string
	period  models.Period
}

var periodKeywords = []periodKeyword{
	{"5 year", models.Period5Years},
	{"five year", models.Period5Years},
	{"5y", models.Period5Years},
	{"6 month", models.Period6Months},
	{"six month", models.Period6Months},
	{"6mo", models.Period6Months},
	{"3 month", models.Period3Months},
	{"three month", models.Period3Months},
	{"quarter", models.Period3Months},
	{"3mo", models.Period3Months},
	{"1 week", models.Period1Week},
	{"one week", models.Period1Week},
	{"week", models.Period1Week},
	{"1 month", models.Period1Month},
	{"one month", models.Period1Month},
	{"month", models.Period1Month},
	{"1 year", models.Period1Year},
	{"one year", models.Period1Year},
	{"year", models.Period1Year},
}

// ResolvePeriod maps a query to a period. Total and deterministic: the
// first declared keyword found as a case-insensitive substring wins,
// and no match yields the one-year default.
func ResolvePeriod(text string) models.Period {
	p, _ := MatchPeriod(text)
	return p
}

// MatchPeriod is ResolvePeriod plus a flag reporting whether any
// keyword actually matched, so callers can apply a session default
// instead of the built-in one.
func MatchPeriod(text string) (models.Period, bool) {
	lowered := strings.ToLower(text)
	for _, pk := range periodKeywords {
		if strings.Contains(lowered, pk.keyword) {
			return pk.period, true
		}
	}
	return models.DefaultPeriod, false
}
