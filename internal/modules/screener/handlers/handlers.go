// Package handlers exposes the screening pipeline over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/optionscout/internal/modules/screener"
)

// HistoryRecorder persists a summary of each screening run. Recording
// failures are logged by the implementation and never fail the request.
type HistoryRecorder interface {
	Record(screenerType string, putTickers, callTickers string, reports []screener.TickerReport, contracts int, duration time.Duration)
}

// Handlers provides HTTP handlers for the screener module
type Handlers struct {
	income  *screener.IncomeScreener
	buy     *screener.BuyScreener
	history HistoryRecorder
	log     zerolog.Logger
	now     func() time.Time
}

// NewHandlers creates a new screener handlers instance. history may be nil
// when run persistence is disabled.
func NewHandlers(income *screener.IncomeScreener, buy *screener.BuyScreener, history HistoryRecorder, log zerolog.Logger) *Handlers {
	return &Handlers{
		income:  income,
		buy:     buy,
		history: history,
		log:     log.With().Str("module", "screener_handlers").Logger(),
		now:     time.Now,
	}
}

// AnalyzeRequest represents an analyze request from the frontend
type AnalyzeRequest struct {
	ScreenerType string           `json:"screenerType"`
	PutTickers   string           `json:"putTickers"`
	CallTickers  string           `json:"callTickers"`
	Filters      screener.Filters `json:"filters"`
}

// incomeResponse is the income-screener wire format. Extra diagnostics ride
// along without changing the always-200 contract.
type incomeResponse struct {
	Puts           []screener.Contract     `json:"puts"`
	Calls          []screener.Contract     `json:"calls"`
	SkippedTickers []screener.TickerReport `json:"skipped_tickers,omitempty"`
}

type buyResponse struct {
	BullishCalls   []screener.Contract     `json:"bullish_calls"`
	BearishPuts    []screener.Contract     `json:"bearish_puts"`
	SkippedTickers []screener.TickerReport `json:"skipped_tickers,omitempty"`
}

// HandleAnalyze handles POST /api/analyze. The screenerType parameter routes
// to the income screener (default) or the buy screener. Ticker failures
// degrade to empty contributions; the response is 200 regardless, and the
// caller inspects array lengths to detect a degraded run.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	// Filters default before decode so an absent filters key keeps defaults
	req.Filters = screener.DefaultFilters()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode analyze request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	putTickers := strings.Split(req.PutTickers, ",")
	callTickers := strings.Split(req.CallTickers, ",")
	today := h.now()

	h.log.Info().
		Str("screener_type", req.ScreenerType).
		Str("put_tickers", req.PutTickers).
		Str("call_tickers", req.CallTickers).
		Msg("Received analyze request")

	start := time.Now()

	if req.ScreenerType == "buy" {
		result, reports := h.buy.Analyze(putTickers, callTickers, req.Filters, today)
		h.record("buy", req, reports, len(result.BullishCalls)+len(result.BearishPuts), time.Since(start))
		h.writeJSON(w, buyResponse{
			BullishCalls:   result.BullishCalls,
			BearishPuts:    result.BearishPuts,
			SkippedTickers: skippedOnly(reports),
		})
		return
	}

	result, reports := h.income.Analyze(putTickers, callTickers, req.Filters, today)
	h.record("income", req, reports, len(result.Puts)+len(result.Calls), time.Since(start))
	h.writeJSON(w, incomeResponse{
		Puts:           result.Puts,
		Calls:          result.Calls,
		SkippedTickers: skippedOnly(reports),
	})
}

// HandleFilterDefaults handles GET /api/filters/defaults so the frontend and
// backend agree on the documented default bounds.
func (h *Handlers) HandleFilterDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, screener.DefaultFilters())
}

func (h *Handlers) record(screenerType string, req AnalyzeRequest, reports []screener.TickerReport, contracts int, duration time.Duration) {
	if h.history == nil {
		return
	}
	h.history.Record(screenerType, req.PutTickers, req.CallTickers, reports, contracts, duration)
}

func skippedOnly(reports []screener.TickerReport) []screener.TickerReport {
	var skipped []screener.TickerReport
	for _, report := range reports {
		if report.Skipped {
			skipped = append(skipped, report)
		}
	}
	return skipped
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
