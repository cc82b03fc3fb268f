package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/optionscout/internal/domain"
	"github.com/aristath/optionscout/internal/modules/screener"
)

var testToday = time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

// stubMarket serves one symbol with one expiration per registered chain.
type stubMarket struct {
	prices      map[string]float64
	priceErrs   map[string]error
	expirations map[string][]string
	chains      map[string]*domain.Chain
}

func newStubMarket() *stubMarket {
	return &stubMarket{
		prices:      map[string]float64{},
		priceErrs:   map[string]error{},
		expirations: map[string][]string{},
		chains:      map[string]*domain.Chain{},
	}
}

func (m *stubMarket) LiveOrClosePrice(symbol string) (float64, domain.PriceSource, error) {
	if err, ok := m.priceErrs[symbol]; ok {
		return 0, "", err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return 0, "", fmt.Errorf("no price for %s", symbol)
	}
	return price, domain.PriceSourceClose, nil
}

func (m *stubMarket) Expirations(symbol string) ([]string, error) {
	return m.expirations[symbol], nil
}

func (m *stubMarket) OptionChain(symbol, expiration string) (*domain.Chain, error) {
	chain, ok := m.chains[symbol+"|"+expiration]
	if !ok {
		return &domain.Chain{}, nil
	}
	return chain, nil
}

func (m *stubMarket) RiskFreeRate() float64 { return 0.05 }

func (m *stubMarket) addChain(symbol string, days int, chain *domain.Chain) {
	exp := testToday.AddDate(0, 0, days).Format("2006-01-02")
	m.expirations[symbol] = append(m.expirations[symbol], exp)
	m.chains[symbol+"|"+exp] = chain
}

type recordedRun struct {
	screenerType string
	contracts    int
}

type stubRecorder struct {
	runs []recordedRun
}

func (r *stubRecorder) Record(screenerType string, putTickers, callTickers string, reports []screener.TickerReport, contracts int, duration time.Duration) {
	r.runs = append(r.runs, recordedRun{screenerType: screenerType, contracts: contracts})
}

func f64(v float64) *float64 { return &v }

func newTestHandlers(market *stubMarket, recorder *stubRecorder) *Handlers {
	log := zerolog.Nop()
	income := screener.NewIncomeScreener(market, log)
	buy := screener.NewBuyScreener(market, log)
	var history HistoryRecorder
	if recorder != nil {
		history = recorder
	}
	h := NewHandlers(income, buy, history, log)
	h.now = func() time.Time { return testToday }
	return h
}

func postAnalyze(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleAnalyze(w, req)
	return w
}

func TestHandleAnalyzeIncomeDefault(t *testing.T) {
	market := newStubMarket()
	market.prices["AAPL"] = 100
	market.addChain("AAPL", 15, &domain.Chain{
		Puts: []domain.OptionQuote{
			{Strike: 90, Bid: f64(0.5), Volume: f64(150), OpenInterest: f64(200), ImpliedVolatility: f64(0.3), Delta: f64(-0.2)},
		},
	})

	recorder := &stubRecorder{}
	h := newTestHandlers(market, recorder)

	w := postAnalyze(t, h, `{"putTickers": "AAPL", "callTickers": ""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Puts  []json.RawMessage `json:"puts"`
		Calls []json.RawMessage `json:"calls"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Puts, 1)
	assert.NotNil(t, resp.Calls)
	assert.Empty(t, resp.Calls)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, "income", recorder.runs[0].screenerType)
	assert.Equal(t, 1, recorder.runs[0].contracts)
}

func TestHandleAnalyzeBuyRouting(t *testing.T) {
	market := newStubMarket()
	market.prices["AAPL"] = 100
	market.addChain("AAPL", 15, &domain.Chain{
		Calls: []domain.OptionQuote{
			{Strike: 110, Ask: f64(0.6), Volume: f64(100), OpenInterest: f64(100), Delta: f64(0.5)},
		},
	})

	h := newTestHandlers(market, nil)

	w := postAnalyze(t, h, `{"screenerType": "buy", "putTickers": "", "callTickers": "AAPL"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BullishCalls []struct {
			Premium  float64  `json:"premium"`
			BuyScore *float64 `json:"buyScore"`
		} `json:"bullish_calls"`
		BearishPuts []json.RawMessage `json:"bearish_puts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.BullishCalls, 1)
	assert.Equal(t, 0.6, resp.BullishCalls[0].Premium)
	require.NotNil(t, resp.BullishCalls[0].BuyScore)
	assert.InDelta(t, 51.1, *resp.BullishCalls[0].BuyScore, 1e-9)
	assert.NotNil(t, resp.BearishPuts)
}

func TestHandleAnalyzeBadBody(t *testing.T) {
	h := newTestHandlers(newStubMarket(), nil)
	w := postAnalyze(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid request body")
}

func TestHandleAnalyzeAllTickersFailStill200(t *testing.T) {
	market := newStubMarket()
	market.priceErrs["FAIL"] = fmt.Errorf("feed down")

	h := newTestHandlers(market, nil)

	w := postAnalyze(t, h, `{"putTickers": "FAIL", "callTickers": "FAIL"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Puts           []json.RawMessage `json:"puts"`
		Calls          []json.RawMessage `json:"calls"`
		SkippedTickers []struct {
			Symbol string `json:"symbol"`
			Reason string `json:"reason"`
		} `json:"skipped_tickers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Puts)
	assert.Empty(t, resp.Puts)
	assert.NotNil(t, resp.Calls)
	assert.Empty(t, resp.Calls)
	require.NotEmpty(t, resp.SkippedTickers)
	assert.Equal(t, "FAIL", resp.SkippedTickers[0].Symbol)
	assert.Contains(t, resp.SkippedTickers[0].Reason, "feed down")
}

func TestHandleAnalyzePartialFiltersOverlayDefaults(t *testing.T) {
	market := newStubMarket()
	market.prices["AAPL"] = 100
	// DTE 15 contract; request narrows the window past it
	market.addChain("AAPL", 15, &domain.Chain{
		Puts: []domain.OptionQuote{
			{Strike: 90, Bid: f64(0.5), Volume: f64(150), OpenInterest: f64(200), Delta: f64(-0.2)},
		},
	})

	h := newTestHandlers(market, nil)

	w := postAnalyze(t, h, `{"putTickers": "AAPL", "callTickers": "", "filters": {"DTE_MIN": 20}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Puts []json.RawMessage `json:"puts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Puts)
}

func TestHandleFilterDefaults(t *testing.T) {
	h := newTestHandlers(newStubMarket(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/filters/defaults", nil)
	w := httptest.NewRecorder()
	h.HandleFilterDefaults(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got screener.Filters
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, screener.DefaultFilters(), got)
}
