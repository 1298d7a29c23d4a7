package query

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
)

// ErrNoSymbol is returned when no tier produces a validated symbol.
// It is a legitimate outcome, not a fault: the caller falls back to the
// generic-advice path.
var ErrNoSymbol = errors.New("no symbol found in query")

// uppercaseRuns matches maximal runs of consecutive uppercase letters.
var uppercaseRuns = regexp.MustCompile(`[A-Z]+`)

// companyKeyword maps a company-name keyword to its canonical symbol.
// Declaration order is the tie-break when several keywords match.
type companyKeyword struct {
	keyword string
	symbol  string
}

var companyKeywords = []companyKeyword{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"alphabet", "GOOGL"},
	{"google", "GOOGL"},
	{"amazon", "AMZN"},
	{"tesla", "TSLA"},
	{"facebook", "META"},
	{"meta", "META"},
	{"nvidia", "NVDA"},
	{"netflix", "NFLX"},
	{"intel", "INTC"},
	{"berkshire", "BRK-B"},
	{"jpmorgan", "JPM"},
	{"walmart", "WMT"},
	{"disney", "DIS"},
	{"boeing", "BA"},
}

// Extractor maps free text to zero or one validated symbol using
// tiered heuristics. Uppercase short tokens collide with ordinary
// words and acronyms, so every candidate is confirmed against the
// gateway's live-price check before it is returned; an unvalidated
// guess never escapes. A validation failure (provider error, timeout)
// rejects the candidate and extraction moves on.
type Extractor struct {
	gateway interfaces.MarketGateway
	logger  *common.Logger
}

// NewExtractor creates a ticker extractor backed by the given gateway.
func NewExtractor(gateway interfaces.MarketGateway, logger *common.Logger) *Extractor {
	return &Extractor{
		gateway: gateway,
		logger:  logger,
	}
}

// Extract runs the tiers in order and returns the first validated
// symbol, or ErrNoSymbol.
func (e *Extractor) Extract(ctx context.Context, text string) (string, error) {
	if symbol, ok := e.patternTier(ctx, text); ok {
		return symbol, nil
	}
	if symbol, ok := e.keywordTier(ctx, text); ok {
		return symbol, nil
	}
	if symbol, ok := e.looseTokenTier(ctx, text); ok {
		return symbol, nil
	}
	return "", ErrNoSymbol
}

// patternTier collects maximal runs of 1-5 consecutive uppercase
// letters in order of first appearance and returns the first one the
// gateway confirms a live price for.
func (e *Extractor) patternTier(ctx context.Context, text string) (string, bool) {
	seen := make(map[string]bool)
	for _, run := range uppercaseRuns.FindAllString(text, -1) {
		if len(run) > 5 || seen[run] {
			continue
		}
		seen[run] = true
		if e.gateway.HasLivePrice(ctx, run) {
			e.logger.Debug().Str("symbol", run).Str("tier", "pattern").Msg("Symbol extracted")
			return run, true
		}
	}
	return "", false
}

// keywordTier scans the company-name mapping in declaration order.
// Matches are still gateway-validated before being returned.
func (e *Extractor) keywordTier(ctx context.Context, text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, ck := range companyKeywords {
		if !strings.Contains(lowered, ck.keyword) {
			continue
		}
		if e.gateway.HasLivePrice(ctx, ck.symbol) {
			e.logger.Debug().Str("symbol", ck.symbol).Str("tier", "keyword").Msg("Symbol extracted")
			return ck.symbol, true
		}
	}
	return "", false
}

// looseTokenTier splits on whitespace and validates any fully-uppercase
// token of at most 5 letters, exactly as the pattern tier does.
func (e *Extractor) looseTokenTier(ctx context.Context, text string) (string, bool) {
	for _, token := range strings.Fields(text) {
		token = strings.Trim(token, ".,;:!?'\"()")
		if !isUpperToken(token) {
			continue
		}
		if e.gateway.HasLivePrice(ctx, token) {
			e.logger.Debug().Str("symbol", token).Str("tier", "loose").Msg("Symbol extracted")
			return token, true
		}
	}
	return "", false
}

// isUpperToken reports whether token is 1-5 uppercase letters.
func isUpperToken(token string) bool {
	if len(token) == 0 || len(token) > 5 {
		return false
	}
	for _, r := range token {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ExtractPair extracts two distinct validated symbols for the
// comparison path: the first from the full query, the second from the
// query with the first symbol's evidence removed. A second symbol may
// legitimately not exist.
func (e *Extractor) ExtractPair(ctx context.Context, text string) (string, string, error) {
	first, err := e.Extract(ctx, text)
	if err != nil {
		return "", "", err
	}

	remainder := stripSymbolEvidence(text, first)
	second, err := e.Extract(ctx, remainder)
	if err != nil || second == first {
		return first, "", nil
	}
	return first, second, nil
}

// stripSymbolEvidence removes the symbol itself and any company
// keyword that maps to it, so a second extraction pass cannot find the
// same instrument again.
func stripSymbolEvidence(text, symbol string) string {
	out := strings.ReplaceAll(text, symbol, " ")
	lowered := strings.ToLower(out)
	for _, ck := range companyKeywords {
		if ck.symbol != symbol {
			continue
		}
		for {
			idx := strings.Index(lowered, ck.keyword)
			if idx < 0 {
				break
			}
			out = out[:idx] + " " + out[idx+len(ck.keyword):]
			lowered = strings.ToLower(out)
		}
	}
	return out
}

// Ensure Extractor implements TickerExtractor
var _ interfaces.TickerExtractor = (*Extractor)(nil)
