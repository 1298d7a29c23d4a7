package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/services/analysis"
	"github.com/bobmcallan/advisor/internal/services/market"
)

// investmentTips is the static guidance served alongside the assistant.
var investmentTips = []string{
	"Diversify your investments to manage risk.",
	"Start with index funds if you're a beginner.",
	"Don't try to time the market.",
	"Invest with a long-term perspective.",
	"Stay informed about market trends and economic conditions.",
}

const disclaimer = "This assistant provides general financial insights and should not be considered professional financial advice. Always do your own research before investing."

// handleAssistantAsk handles POST /api/assistant/ask: run the full query pipeline.
func (s *Server) handleAssistantAsk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := s.app.Assistant.Answer(r.Context(), req.Query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to answer query: "+err.Error())
		return
	}

	// Remember what the user last looked at for follow-up questions.
	if resp.Symbol != "" {
		s.app.Session.Set(resp.Symbol, resp.Period)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleAssistantCompare handles POST /api/assistant/compare: compare two symbols.
func (s *Server) handleAssistantCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SymbolA string `json:"symbol_a"`
		SymbolB string `json:"symbol_b"`
		Period  string `json:"period,omitempty"`
		Query   string `json:"query,omitempty"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	symbolA := strings.ToUpper(strings.TrimSpace(req.SymbolA))
	symbolB := strings.ToUpper(strings.TrimSpace(req.SymbolB))
	if symbolA == "" || symbolB == "" {
		WriteError(w, http.StatusBadRequest, "symbol_a and symbol_b are required")
		return
	}

	period, ok := parsePeriod(w, req.Period)
	if !ok {
		return
	}

	resp, err := s.app.Assistant.Compare(r.Context(), symbolA, symbolB, period, req.Query)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to compare: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleAssistantTips handles GET /api/assistant/tips: static investing guidance.
func (s *Server) handleAssistantTips(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tips":       investmentTips,
		"disclaimer": disclaimer,
	})
}

// handleMarketStock handles GET /api/market/stocks/{symbol}: raw gateway data.
func (s *Server) handleMarketStock(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(PathParam(r, "/api/market/stocks/", "")))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	period, ok := parsePeriod(w, r.URL.Query().Get("period"))
	if !ok {
		return
	}

	data, err := s.app.Gateway.GetStockData(r.Context(), symbol, period)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// handleChartCompare handles GET /api/charts/compare?a=&b=&period=: PNG chart.
func (s *Server) handleChartCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	symbolA := strings.ToUpper(strings.TrimSpace(q.Get("a")))
	symbolB := strings.ToUpper(strings.TrimSpace(q.Get("b")))
	if symbolA == "" || symbolB == "" {
		WriteError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}

	period, ok := parsePeriod(w, q.Get("period"))
	if !ok {
		return
	}

	comparison := s.app.Assistant.GetComparison(r.Context(), symbolA, symbolB, period)

	png, err := analysis.RenderComparisonChart(comparison)
	if err != nil {
		WriteError(w, http.StatusNotFound, "failed to render chart: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSession handles GET and PUT /api/session: session defaults.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		symbol, period := s.app.Session.Snapshot()
		WriteJSON(w, http.StatusOK, map[string]string{
			"last_symbol": symbol,
			"last_period": string(period),
		})

	case http.MethodPut:
		var req struct {
			LastSymbol string `json:"last_symbol,omitempty"`
			LastPeriod string `json:"last_period,omitempty"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		period := models.Period(req.LastPeriod)
		if req.LastPeriod != "" && !period.Valid() {
			WriteError(w, http.StatusBadRequest, "invalid period: "+req.LastPeriod)
			return
		}

		s.app.Session.Set(strings.ToUpper(strings.TrimSpace(req.LastSymbol)), period)

		symbol, current := s.app.Session.Snapshot()
		WriteJSON(w, http.StatusOK, map[string]string{
			"last_symbol": symbol,
			"last_period": string(current),
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// parsePeriod resolves an optional period string, writing a 400 when it
// is present but unknown.
func parsePeriod(w http.ResponseWriter, raw string) (models.Period, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DefaultPeriod, true
	}
	period := models.Period(raw)
	if !period.Valid() {
		WriteError(w, http.StatusBadRequest, "invalid period: "+raw)
		return "", false
	}
	return period, true
}

// writeGatewayError maps gateway failures onto HTTP status codes.
func writeGatewayError(w http.ResponseWriter, err error) {
	var noData *market.NoDataError
	if errors.As(err, &noData) {
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "no_data")
		return
	}
	var fetchErr *market.FetchError
	if errors.As(err, &fetchErr) {
		WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "fetch_failed")
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}
