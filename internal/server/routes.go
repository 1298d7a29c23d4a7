package server

import (
	"net/http"

	"github.com/bobmcallan/advisor/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Assistant
	mux.HandleFunc("/api/assistant/ask", s.handleAssistantAsk)
	mux.HandleFunc("/api/assistant/compare", s.handleAssistantCompare)
	mux.HandleFunc("/api/assistant/tips", s.handleAssistantTips)

	// Market data
	mux.HandleFunc("/api/market/stocks/", s.handleMarketStock)

	// Charts
	mux.HandleFunc("/api/charts/compare", s.handleChartCompare)

	// Session defaults
	mux.HandleFunc("/api/session", s.handleSession)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
