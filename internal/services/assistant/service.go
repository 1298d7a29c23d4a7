// Package assistant orchestrates the query pipeline: period and symbol
// resolution, the market-data fetch, payload assembly, and the
// language-model request.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/services/analysis"
	"github.com/bobmcallan/advisor/internal/services/query"
)

// Service implements the AssistantService interface.
type Service struct {
	gateway   interfaces.MarketGateway
	extractor *query.Extractor
	llm       interfaces.LLMClient
	session   *models.SessionDefaults
	logger    *common.Logger
}

// NewService creates the assistant pipeline. llm may be nil when no
// API key is configured; responses then carry the rendered request and
// a notice instead of an answer. session may be nil.
func NewService(gateway interfaces.MarketGateway, extractor *query.Extractor, llm interfaces.LLMClient, session *models.SessionDefaults, logger *common.Logger) *Service {
	return &Service{
		gateway:   gateway,
		extractor: extractor,
		llm:       llm,
		session:   session,
		logger:    logger,
	}
}

// comparisonCues mark a query as a two-instrument question worth a
// second extraction pass.
var comparisonCues = []string{"compare", " vs ", " versus ", "difference between"}

// Answer resolves the query end to end. Extraction yielding no symbol
// is a legitimate outcome, not a fault: the response falls back to a
// general-advice request that asks the user to name a company or
// ticker. A gateway failure for a resolved symbol does the same, with
// the failure named in the notice; stale or default data is never
// substituted.
func (s *Service) Answer(ctx context.Context, text string) (*interfaces.AssistantResponse, error) {
	period := s.resolvePeriod(text)

	if s.isComparisonQuery(text) {
		symbolA, symbolB, err := s.extractor.ExtractPair(ctx, text)
		if err == nil && symbolB != "" {
			return s.Compare(ctx, symbolA, symbolB, period, text)
		}
	}

	symbol, err := s.extractor.Extract(ctx, text)
	if errors.Is(err, query.ErrNoSymbol) {
		s.logger.Debug().Str("query", text).Msg("No symbol extracted, using generic advice path")
		return s.generic(ctx, text, "")
	}
	if err != nil {
		return nil, err
	}

	data, err := s.gateway.GetStockData(ctx, symbol, period)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Market data unavailable, using generic advice path")
		return s.generic(ctx, text, err.Error())
	}

	report := analysis.BuildStockReport(data)
	request := analysis.BuildStockRequest(text, report)

	answer, err := s.generate(ctx, request)
	if err != nil {
		return nil, err
	}

	return &interfaces.AssistantResponse{
		Mode:    request.Mode,
		Query:   text,
		Symbol:  symbol,
		Period:  period,
		Report:  report,
		Request: request,
		Answer:  answer,
	}, nil
}

// Compare runs the two-instrument pipeline. Each side is fetched
// independently; one side's failure is recorded on that side and does
// not abort the comparison.
func (s *Service) Compare(ctx context.Context, symbolA, symbolB string, period models.Period, text string) (*interfaces.AssistantResponse, error) {
	if !period.Valid() {
		period = models.DefaultPeriod
	}

	sideA := s.fetchSide(ctx, symbolA, period)
	sideB := s.fetchSide(ctx, symbolB, period)

	comparison := analysis.BuildComparison(sideA, sideB, period)
	request := analysis.BuildComparisonRequest(text, comparison)

	answer, err := s.generate(ctx, request)
	if err != nil {
		return nil, err
	}

	return &interfaces.AssistantResponse{
		Mode:       request.Mode,
		Query:      text,
		Period:     period,
		Comparison: comparison,
		Request:    request,
		Answer:     answer,
	}, nil
}

// GetComparison fetches both sides and builds the comparison without
// invoking the language model. Used by the chart endpoint.
func (s *Service) GetComparison(ctx context.Context, symbolA, symbolB string, period models.Period) *models.ComparisonResult {
	if !period.Valid() {
		period = models.DefaultPeriod
	}
	sideA := s.fetchSide(ctx, symbolA, period)
	sideB := s.fetchSide(ctx, symbolB, period)
	return analysis.BuildComparison(sideA, sideB, period)
}

// resolvePeriod applies the period keywords, falling back to the
// session's last period (a UI-written default) before the built-in
// one-year default.
func (s *Service) resolvePeriod(text string) models.Period {
	period, matched := query.MatchPeriod(text)
	if matched {
		return period
	}
	if s.session != nil {
		if _, last := s.session.Snapshot(); last.Valid() {
			return last
		}
	}
	return period
}

func (s *Service) isComparisonQuery(text string) bool {
	lowered := strings.ToLower(text)
	for _, cue := range comparisonCues {
		if strings.Contains(lowered, cue) {
			return true
		}
	}
	return false
}

func (s *Service) fetchSide(ctx context.Context, symbol string, period models.Period) models.ComparisonSide {
	side := models.ComparisonSide{Symbol: symbol}
	data, err := s.gateway.GetStockData(ctx, symbol, period)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Comparison side fetch failed")
		side.Error = err.Error()
		return side
	}
	side.Snapshot = data.Snapshot
	side.Series = data.Series
	return side
}

func (s *Service) generic(ctx context.Context, text, notice string) (*interfaces.AssistantResponse, error) {
	request := analysis.BuildGenericRequest(text)

	answer, err := s.generate(ctx, request)
	if err != nil {
		return nil, err
	}

	return &interfaces.AssistantResponse{
		Mode:    request.Mode,
		Query:   text,
		Request: request,
		Answer:  answer,
		Notice:  notice,
	}, nil
}

// generate invokes the LLM collaborator. A nil client yields an empty
// answer; the rendered request still reaches the caller.
func (s *Service) generate(ctx context.Context, request *models.AnalysisRequest) (string, error) {
	if s.llm == nil {
		return "", nil
	}
	answer, err := s.llm.GenerateContent(ctx, request.Prompt)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Ensure Service implements AssistantService
var _ interfaces.AssistantService = (*Service)(nil)
