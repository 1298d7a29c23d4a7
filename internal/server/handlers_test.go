package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/advisor/internal/app"
	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/services/market"
)

// --- mocks ---

type mockGateway struct {
	data map[string]*models.StockData
	errs map[string]error
}

func (m *mockGateway) GetStockData(_ context.Context, symbol string, period models.Period) (*models.StockData, error) {
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	if data, ok := m.data[symbol]; ok {
		return data, nil
	}
	return nil, &market.NoDataError{Symbol: symbol, Period: period}
}

func (m *mockGateway) HasLivePrice(_ context.Context, symbol string) bool {
	_, ok := m.data[symbol]
	return ok
}

type mockAssistant struct {
	answerFn  func(ctx context.Context, query string) (*interfaces.AssistantResponse, error)
	compareFn func(ctx context.Context, a, b string, period models.Period, query string) (*interfaces.AssistantResponse, error)
	getCmpFn  func(ctx context.Context, a, b string, period models.Period) *models.ComparisonResult
}

func (m *mockAssistant) Answer(ctx context.Context, query string) (*interfaces.AssistantResponse, error) {
	return m.answerFn(ctx, query)
}

func (m *mockAssistant) Compare(ctx context.Context, a, b string, period models.Period, query string) (*interfaces.AssistantResponse, error) {
	return m.compareFn(ctx, a, b, period, query)
}

func (m *mockAssistant) GetComparison(ctx context.Context, a, b string, period models.Period) *models.ComparisonResult {
	return m.getCmpFn(ctx, a, b, period)
}

// --- fixtures ---

func testStockData(symbol string, price float64) *models.StockData {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var bars []models.Bar
	for i := 0; i < 10; i++ {
		bars = append(bars, models.Bar{Date: start.AddDate(0, 0, i), Close: price + float64(i)})
	}
	return &models.StockData{
		Symbol: symbol,
		Period: models.Period1Year,
		Series: &models.StockSeries{Symbol: symbol, Bars: bars},
		Snapshot: &models.StockSnapshot{
			Symbol:       symbol,
			Name:         symbol + " Inc",
			CurrentPrice: models.MetricOf(price),
		},
	}
}

func newTestServer(gw *mockGateway, assistant *mockAssistant) *Server {
	a := &app.App{
		Config:    common.NewDefaultConfig(),
		Logger:    common.NewSilentLogger(),
		Gateway:   gw,
		Assistant: assistant,
		Session:   models.NewSessionDefaults(),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func doRequest(srv *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["version"])
}

func TestHandleAssistantAsk(t *testing.T) {
	assistant := &mockAssistant{
		answerFn: func(_ context.Context, query string) (*interfaces.AssistantResponse, error) {
			return &interfaces.AssistantResponse{
				Mode:   "stock",
				Query:  query,
				Symbol: "AAPL",
				Period: models.Period1Year,
				Answer: "AAPL looks fine.",
			}, nil
		},
	}
	srv := newTestServer(&mockGateway{}, assistant)

	body := jsonBody(t, map[string]string{"query": "What is AAPL's current price?"})
	rec := doRequest(srv, http.MethodPost, "/api/assistant/ask", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp interfaces.AssistantResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "stock", resp.Mode)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "AAPL looks fine.", resp.Answer)

	// A successful resolution becomes the session default.
	symbol, period := srv.app.Session.Snapshot()
	assert.Equal(t, "AAPL", symbol)
	assert.Equal(t, models.Period1Year, period)
}

func TestHandleAssistantAskEmptyQuery(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodPost, "/api/assistant/ask", jsonBody(t, map[string]string{"query": "   "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssistantAskMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/assistant/ask", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAssistantAskGenericNoSessionWrite(t *testing.T) {
	assistant := &mockAssistant{
		answerFn: func(_ context.Context, query string) (*interfaces.AssistantResponse, error) {
			return &interfaces.AssistantResponse{Mode: "general", Query: query}, nil
		},
	}
	srv := newTestServer(&mockGateway{}, assistant)

	rec := doRequest(srv, http.MethodPost, "/api/assistant/ask", jsonBody(t, map[string]string{"query": "general question"}))
	require.Equal(t, http.StatusOK, rec.Code)

	symbol, _ := srv.app.Session.Snapshot()
	assert.Empty(t, symbol, "a generic answer must not set a session symbol")
}

func TestHandleAssistantCompare(t *testing.T) {
	assistant := &mockAssistant{
		compareFn: func(_ context.Context, a, b string, period models.Period, _ string) (*interfaces.AssistantResponse, error) {
			return &interfaces.AssistantResponse{
				Mode:   "comparison",
				Period: period,
				Comparison: &models.ComparisonResult{
					SideA:  models.ComparisonSide{Symbol: a},
					SideB:  models.ComparisonSide{Symbol: b},
					Period: period,
				},
			}, nil
		},
	}
	srv := newTestServer(&mockGateway{}, assistant)

	body := jsonBody(t, map[string]string{"symbol_a": "aapl", "symbol_b": "msft", "period": "3mo"})
	rec := doRequest(srv, http.MethodPost, "/api/assistant/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp interfaces.AssistantResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "comparison", resp.Mode)
	assert.Equal(t, "AAPL", resp.Comparison.SideA.Symbol, "symbols are normalized to uppercase")
	assert.Equal(t, models.Period3Months, resp.Period)
}

func TestHandleAssistantCompareValidation(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodPost, "/api/assistant/compare", jsonBody(t, map[string]string{"symbol_a": "AAPL"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/api/assistant/compare",
		jsonBody(t, map[string]string{"symbol_a": "AAPL", "symbol_b": "MSFT", "period": "2d"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssistantTips(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/assistant/tips", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tips       []string `json:"tips"`
		Disclaimer string   `json:"disclaimer"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Tips)
	assert.Contains(t, resp.Disclaimer, "not be considered professional financial advice")
}

func TestHandleMarketStock(t *testing.T) {
	gw := &mockGateway{data: map[string]*models.StockData{"AAPL": testStockData("AAPL", 150)}}
	srv := newTestServer(gw, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/market/stocks/aapl?period=1mo", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.StockData
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Len(t, resp.Series.Bars, 10)
}

func TestHandleMarketStockNoData(t *testing.T) {
	srv := newTestServer(&mockGateway{data: map[string]*models.StockData{}}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/market/stocks/ZZZZZ", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "no_data", resp.Code)
}

func TestHandleMarketStockFetchError(t *testing.T) {
	gw := &mockGateway{errs: map[string]error{
		"AAPL": &market.FetchError{Symbol: "AAPL", Err: errors.New("provider down")},
	}}
	srv := newTestServer(gw, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/market/stocks/AAPL", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "fetch_failed", resp.Code)
}

func TestHandleMarketStockBadPeriod(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/market/stocks/AAPL?period=2d", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChartCompare(t *testing.T) {
	a := testStockData("AAPL", 150)
	b := testStockData("MSFT", 300)
	assistant := &mockAssistant{
		getCmpFn: func(_ context.Context, _, _ string, period models.Period) *models.ComparisonResult {
			return &models.ComparisonResult{
				SideA:  models.ComparisonSide{Symbol: "AAPL", Snapshot: a.Snapshot, Series: a.Series},
				SideB:  models.ComparisonSide{Symbol: "MSFT", Snapshot: b.Snapshot, Series: b.Series},
				Period: period,
			}
		},
	}
	srv := newTestServer(&mockGateway{}, assistant)

	rec := doRequest(srv, http.MethodGet, "/api/charts/compare?a=AAPL&b=MSFT&period=1y", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestHandleChartCompareMissingParams(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/charts/compare?a=AAPL", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSession(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	// Empty defaults at first.
	rec := doRequest(srv, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp["last_symbol"])

	// Update.
	body := jsonBody(t, map[string]string{"last_symbol": "msft", "last_period": "3mo"})
	rec = doRequest(srv, http.MethodPut, "/api/session", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "MSFT", resp["last_symbol"])
	assert.Equal(t, "3mo", resp["last_period"])

	// Invalid period rejected.
	rec = doRequest(srv, http.MethodPut, "/api/session", jsonBody(t, map[string]string{"last_period": "2d"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflights(t *testing.T) {
	srv := newTestServer(&mockGateway{}, &mockAssistant{})

	rec := doRequest(srv, http.MethodOptions, "/api/assistant/ask", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
