// Package market implements the market-data gateway: it resolves a
// symbol and period into a validated series and snapshot, or a typed
// failure.
package market

import (
	"context"
	"time"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

// cacheWindowYears is how far back cached bars reach. The widest
// resolvable period is five years, so one cached window serves every
// period by slicing.
const cacheWindowYears = 5

// Service implements the MarketGateway interface. It holds no state
// between calls; storage may be nil, in which case every call goes to
// the provider.
type Service struct {
	client  interfaces.MarketDataClient
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a market gateway. storage may be nil to disable
// the cache; client may be nil when no provider is configured, in
// which case fetches fail with a FetchError wrapping ErrNoProvider.
func NewService(client interfaces.MarketDataClient, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// GetStockData fetches the series and snapshot for a symbol over a
// period. An empty bar set for the range is a *NoDataError; a provider
// fault is a *FetchError carrying the cause. Neither is retried here.
func (s *Service) GetStockData(ctx context.Context, symbol string, period models.Period) (*models.StockData, error) {
	now := s.now()
	from, to := period.Range(now)

	data, err := s.loadMarketData(ctx, symbol, now)
	if err != nil {
		return nil, err
	}

	bars := sliceBars(data.EOD, from, to)
	if len(bars) == 0 {
		return nil, &NoDataError{Symbol: symbol, Period: period}
	}

	snapshot := buildSnapshot(symbol, data, now)

	return &models.StockData{
		Symbol:   symbol,
		Period:   period,
		Series:   &models.StockSeries{Symbol: symbol, Bars: bars},
		Snapshot: snapshot,
	}, nil
}

// HasLivePrice reports whether the provider confirms a live price for
// the symbol. Provider errors count as "no": extraction treats a
// failed validation as a rejected candidate, not a fault.
func (s *Service) HasLivePrice(ctx context.Context, symbol string) bool {
	quote, err := s.fetchQuote(ctx, symbol)
	if err != nil {
		s.logger.Debug().Str("symbol", symbol).Err(err).Msg("Live price validation rejected candidate")
		return false
	}
	return quote != nil && quote.Close > 0
}

// loadMarketData returns a provider payload whose bars, quote, and
// fundamentals are all fresh, consulting the cache first. Staleness
// forces a refetch; a refetch failure surfaces as a FetchError rather
// than falling back to the stale copy.
func (s *Service) loadMarketData(ctx context.Context, symbol string, now time.Time) (*models.MarketData, error) {
	var data *models.MarketData
	if s.storage != nil {
		if cached, err := s.storage.MarketDataStorage().GetMarketData(ctx, symbol); err == nil {
			data = cached
		}
	}
	if data == nil {
		data = &models.MarketData{Symbol: symbol}
	}

	// Refreshing a stale component needs a provider. A fully fresh
	// cache still serves.
	if s.client == nil && (!common.IsFresh(data.EODUpdatedAt, common.FreshnessEOD) ||
		!common.IsFresh(data.QuoteUpdatedAt, common.FreshnessQuote) ||
		!common.IsFresh(data.FundamentalsUpdatedAt, common.FreshnessFundamentals)) {
		return nil, &FetchError{Symbol: symbol, Err: ErrNoProvider}
	}

	changed := false

	if !common.IsFresh(data.EODUpdatedAt, common.FreshnessEOD) {
		from := now.AddDate(-cacheWindowYears, 0, 0)
		bars, err := s.client.GetEOD(ctx, symbol, interfaces.WithDateRange(from, now))
		if err != nil {
			return nil, &FetchError{Symbol: symbol, Err: err}
		}
		data.EOD = bars
		data.EODFrom = from
		data.EODUpdatedAt = now
		changed = true
	}

	if !common.IsFresh(data.QuoteUpdatedAt, common.FreshnessQuote) {
		quote, err := s.client.GetLiveQuote(ctx, symbol)
		if err != nil {
			return nil, &FetchError{Symbol: symbol, Err: err}
		}
		data.Quote = quote
		data.QuoteUpdatedAt = now
		changed = true
	}

	if !common.IsFresh(data.FundamentalsUpdatedAt, common.FreshnessFundamentals) {
		fundamentals, err := s.client.GetFundamentals(ctx, symbol)
		if err != nil {
			return nil, &FetchError{Symbol: symbol, Err: err}
		}
		data.Fundamentals = fundamentals
		data.FundamentalsUpdatedAt = now
		changed = true
	}

	if changed {
		data.LastUpdated = now
		if s.storage != nil {
			if err := s.storage.MarketDataStorage().SaveMarketData(ctx, data); err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache market data")
			}
		}
	}

	return data, nil
}

// fetchQuote serves the validation path. It reads through the cache
// with the quote TTL so repeated extraction probes for the same symbol
// do not hammer the provider.
func (s *Service) fetchQuote(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	if s.storage != nil {
		if cached, err := s.storage.MarketDataStorage().GetMarketData(ctx, symbol); err == nil && cached != nil &&
			cached.Quote != nil && common.IsFresh(cached.QuoteUpdatedAt, common.FreshnessQuote) {
			return cached.Quote, nil
		}
	}
	if s.client == nil {
		return nil, &FetchError{Symbol: symbol, Err: ErrNoProvider}
	}
	return s.client.GetLiveQuote(ctx, symbol)
}

// sliceBars returns the ascending bars within [from, to].
func sliceBars(bars []models.Bar, from, to time.Time) []models.Bar {
	var out []models.Bar
	for _, b := range bars {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// buildSnapshot assembles the snapshot from the quote and
// fundamentals. Fields the provider did not supply stay absent; they
// are never coerced to zero.
func buildSnapshot(symbol string, data *models.MarketData, now time.Time) *models.StockSnapshot {
	snapshot := &models.StockSnapshot{
		Symbol: symbol,
		AsOf:   now,
	}

	if data.Quote != nil && data.Quote.Close > 0 {
		snapshot.CurrentPrice = models.MetricOf(data.Quote.Close)
	}

	if f := data.Fundamentals; f != nil {
		snapshot.Name = f.Name
		snapshot.Sector = f.Sector
		snapshot.MarketCap = f.MarketCap
		snapshot.PERatio = f.PERatio
		snapshot.High52Week = f.High52Week
		snapshot.Low52Week = f.Low52Week
	}

	return snapshot
}

// Ensure Service implements MarketGateway
var _ interfaces.MarketGateway = (*Service)(nil)
