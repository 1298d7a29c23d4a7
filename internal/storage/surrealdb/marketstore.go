package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

// MarketStore persists cached market data per symbol in the market_data table.
type MarketStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMarketStore(db *surrealdb.DB, logger *common.Logger) *MarketStore {
	return &MarketStore{
		db:     db,
		logger: logger,
	}
}

// GetMarketData retrieves cached market data for a symbol. Returns nil, nil
// when no record exists.
func (s *MarketStore) GetMarketData(ctx context.Context, symbol string) (*models.MarketData, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	data, err := surrealdb.Select[models.MarketData](ctx, s.db, surrealmodels.NewRecordID("market_data", symbol))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select market data: %w", err)
	}
	if data == nil || data.Symbol == "" {
		return nil, nil
	}
	return data, nil
}

// SaveMarketData upserts cached market data keyed by symbol. Transient write
// failures are retried before giving up.
func (s *MarketStore) SaveMarketData(ctx context.Context, data *models.MarketData) error {
	if data == nil || strings.TrimSpace(data.Symbol) == "" {
		return fmt.Errorf("market data with symbol is required")
	}

	data.Symbol = strings.ToUpper(strings.TrimSpace(data.Symbol))
	data.LastUpdated = time.Now()

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("market_data", data.Symbol),
		"data": data,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.MarketData](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.Warn().
			Str("symbol", data.Symbol).
			Int("attempt", attempt).
			Err(err).
			Msg("Failed to save market data, retrying")
	}
	return fmt.Errorf("failed to save market data after retries: %w", lastErr)
}

// PurgeMarketData removes the cached record for a symbol.
func (s *MarketStore) PurgeMarketData(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	rid := surrealmodels.NewRecordID("market_data", symbol)
	if _, err := surrealdb.Delete[models.MarketData](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to purge market data: %w", err)
	}

	s.logger.Debug().Str("symbol", symbol).Msg("Purged cached market data")
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// Compile-time check
var _ interfaces.MarketDataStorage = (*MarketStore)(nil)
