package market

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/advisor/internal/models"
)

// ErrNoProvider means no market data client is configured, typically a
// missing API key. It surfaces wrapped in a FetchError so callers see
// the same typed failure as any other provider fault.
var ErrNoProvider = errors.New("no market data provider configured")

// NoDataError reports that the provider returned an empty result set
// for a validated symbol and period. The symbol and period are named so
// the caller can report them; the gateway never substitutes stale or
// default data.
type NoDataError struct {
	Symbol string
	Period models.Period
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no market data for %s over %s", e.Symbol, e.Period)
}

// FetchError reports a transport or lookup fault while calling the
// provider. The underlying cause is carried; fetches are never retried
// automatically.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("market data fetch failed for %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
