// Package interfaces defines service contracts for Advisor
package interfaces

import (
	"context"

	"github.com/bobmcallan/advisor/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	// MarketDataStorage returns the market-data cache store.
	MarketDataStorage() MarketDataStorage

	// Lifecycle
	Close() error
}

// MarketDataStorage caches provider payloads per symbol. The cache only
// ever holds provider data; staleness is judged by the caller against
// the per-component timestamps.
type MarketDataStorage interface {
	GetMarketData(ctx context.Context, symbol string) (*models.MarketData, error)
	SaveMarketData(ctx context.Context, data *models.MarketData) error
	PurgeMarketData(ctx context.Context, symbol string) error
}
