package surrealdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/advisor/internal/models"
)

func newTestMarketData(symbol string) *models.MarketData {
	now := time.Now().Truncate(time.Second)
	return &models.MarketData{
		Symbol:  symbol,
		EODFrom: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		EOD: []models.Bar{
			{
				Date:     time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				Open:     100.0,
				High:     105.0,
				Low:      99.0,
				Close:    103.0,
				AdjClose: 103.0,
				Volume:   1000000,
			},
			{
				Date:     time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
				Open:     103.0,
				High:     107.0,
				Low:      102.0,
				Close:    106.0,
				AdjClose: 106.0,
				Volume:   1200000,
			},
		},
		Quote: &models.LiveQuote{
			Symbol:        symbol,
			Close:         106.5,
			PreviousClose: 106.0,
			Change:        0.5,
			ChangePct:     0.47,
			Volume:        500000,
			Timestamp:     now,
		},
		Fundamentals: &models.Fundamentals{
			Symbol:     symbol,
			Name:       symbol + " Corp",
			Sector:     "Technology",
			MarketCap:  models.MetricOf(2.5e12),
			PERatio:    models.MetricOf(31.2),
			High52Week: models.MetricOf(110),
			Low52Week:  models.MetricOf(80),
		},
		EODUpdatedAt:          now,
		QuoteUpdatedAt:        now,
		FundamentalsUpdatedAt: now,
	}
}

func TestMarketStoreSaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())
	ctx := context.Background()

	saved := newTestMarketData("AAPL")
	require.NoError(t, store.SaveMarketData(ctx, saved))

	got, err := store.GetMarketData(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "AAPL", got.Symbol)
	assert.Len(t, got.EOD, 2)
	assert.Equal(t, 103.0, got.EOD[0].Close)
	require.NotNil(t, got.Quote)
	assert.Equal(t, 106.5, got.Quote.Close)
	require.NotNil(t, got.Fundamentals)
	assert.Equal(t, "AAPL Corp", got.Fundamentals.Name)
	assert.True(t, got.Fundamentals.MarketCap.Valid)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestMarketStoreGetMissing(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())

	got, err := store.GetMarketData(context.Background(), "ZZZZZ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarketStoreNormalizesSymbol(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())
	ctx := context.Background()

	data := newTestMarketData("msft")
	require.NoError(t, store.SaveMarketData(ctx, data))
	assert.Equal(t, "MSFT", data.Symbol)

	got, err := store.GetMarketData(ctx, " msft ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "MSFT", got.Symbol)
}

func TestMarketStoreOverwrite(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())
	ctx := context.Background()

	first := newTestMarketData("TSLA")
	require.NoError(t, store.SaveMarketData(ctx, first))

	second := newTestMarketData("TSLA")
	second.Quote.Close = 250.0
	require.NoError(t, store.SaveMarketData(ctx, second))

	got, err := store.GetMarketData(ctx, "TSLA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 250.0, got.Quote.Close)
}

func TestMarketStorePurge(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveMarketData(ctx, newTestMarketData("NVDA")))
	require.NoError(t, store.PurgeMarketData(ctx, "NVDA"))

	got, err := store.GetMarketData(ctx, "NVDA")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Purging an absent symbol is not an error.
	require.NoError(t, store.PurgeMarketData(ctx, "NVDA"))
}

func TestMarketStoreRejectsEmptySymbol(t *testing.T) {
	db := testDB(t)
	store := NewMarketStore(db, testLogger())
	ctx := context.Background()

	_, err := store.GetMarketData(ctx, "  ")
	assert.Error(t, err)

	assert.Error(t, store.SaveMarketData(ctx, &models.MarketData{}))
	assert.Error(t, store.PurgeMarketData(ctx, ""))
}
