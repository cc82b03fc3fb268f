// Package screener implements the options screening pipeline: derived
// metric computation, filter cascades and result bucketing for the income
// (premium selling) and buy (directional) strategies.
package screener

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/optionscout/internal/domain"
	"github.com/aristath/optionscout/pkg/greeks"
)

// IncomeScreener screens option chains for premium-selling candidates:
// cash-secured puts and covered calls.
type IncomeScreener struct {
	market MarketData
	log    zerolog.Logger
}

// NewIncomeScreener creates a new income screener
func NewIncomeScreener(market MarketData, log zerolog.Logger) *IncomeScreener {
	return &IncomeScreener{
		market: market,
		log:    log.With().Str("screener", "income").Logger(),
	}
}

// Analyze screens puts for every put ticker and calls for every call ticker.
// Failures are local: a ticker whose market data cannot be resolved is
// reported as skipped and contributes nothing, while the remaining tickers
// are still processed. Contracts are emitted in discovery order.
func (s *IncomeScreener) Analyze(putTickers, callTickers []string, filters Filters, today time.Time) (*IncomeResult, []TickerReport) {
	result := &IncomeResult{
		Puts:  []Contract{},
		Calls: []Contract{},
	}
	reports := []TickerReport{}

	rate := s.market.RiskFreeRate()

	for _, symbol := range putTickers {
		if symbol == "" {
			continue
		}
		contracts, err := s.screenSide(symbol, domain.SidePut, filters, today, rate)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Skipping ticker")
			reports = append(reports, TickerReport{Symbol: symbol, Skipped: true, Reason: err.Error()})
			continue
		}
		result.Puts = append(result.Puts, contracts...)
		reports = append(reports, TickerReport{Symbol: symbol, Contracts: len(contracts)})
	}

	for _, symbol := range callTickers {
		if symbol == "" {
			continue
		}
		contracts, err := s.screenSide(symbol, domain.SideCall, filters, today, rate)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Skipping ticker")
			reports = append(reports, TickerReport{Symbol: symbol, Skipped: true, Reason: err.Error()})
			continue
		}
		result.Calls = append(result.Calls, contracts...)
		reports = append(reports, TickerReport{Symbol: symbol, Contracts: len(contracts)})
	}

	s.log.Info().
		Int("puts", len(result.Puts)).
		Int("calls", len(result.Calls)).
		Msg("Income analysis complete")

	return result, reports
}

// screenSide processes one side of one ticker. Any market data failure
// aborts the whole ticker so a partially fetched chain never leaks into the
// results.
func (s *IncomeScreener) screenSide(symbol string, side domain.OptionSide, filters Filters, today time.Time, rate float64) ([]Contract, error) {
	price, source, err := s.market.LiveOrClosePrice(symbol)
	if err != nil {
		return nil, fmt.Errorf("could not resolve current price: %w", err)
	}
	if math.IsNaN(price) {
		return nil, fmt.Errorf("current price for %s is not a number", symbol)
	}

	s.log.Info().
		Str("symbol", symbol).
		Float64("price", price).
		Str("source", string(source)).
		Msg("Resolved current price")

	expirations, err := s.market.Expirations(symbol)
	if err != nil {
		return nil, fmt.Errorf("could not list expirations: %w", err)
	}

	var contracts []Contract

	for _, expStr := range expirations {
		expDate, err := time.ParseInLocation("2006-01-02", expStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q: %w", expStr, err)
		}

		dte := daysBetween(today, expDate)
		if float64(dte) < filters.DTEMin || float64(dte) > filters.DTEMax {
			s.log.Debug().Str("symbol", symbol).Str("expiration", expStr).Int("dte", dte).Msg("Skipping expiration outside DTE window")
			continue
		}

		chain, err := s.market.OptionChain(symbol, expStr)
		if err != nil {
			return nil, fmt.Errorf("could not fetch chain for %s: %w", expStr, err)
		}

		rows := chain.Puts
		if side == domain.SideCall {
			rows = chain.Calls
		}

		// The delta filter is only usable when the provider populated the
		// column for this side. Decided once per chain fetch: every contract
		// of this side then goes through exactly one of the two strategy
		// filters, never both.
		useDelta := sideHasDelta(rows)

		for _, q := range rows {
			if c, ok := s.evaluate(symbol, side, q, expStr, dte, price, rate, filters, useDelta); ok {
				contracts = append(contracts, c)
			}
		}
	}

	return contracts, nil
}

// evaluate runs the filter cascade for one contract and, when it passes,
// returns the enriched result.
func (s *IncomeScreener) evaluate(symbol string, side domain.OptionSide, q domain.OptionQuote, expStr string, dte int, price, rate float64, filters Filters, useDelta bool) (Contract, bool) {
	var otmPercent float64
	if price > 0 {
		if side == domain.SidePut {
			otmPercent = (price - q.Strike) / price * 100
		} else {
			otmPercent = (q.Strike - price) / price * 100
		}
	}

	volume := quoteFloat(q.Volume)
	openInterest := quoteFloat(q.OpenInterest)

	if volume < filters.MinVolume {
		return Contract{}, false
	}
	if openInterest < filters.MinOpenInterest {
		return Contract{}, false
	}

	if useDelta {
		deltaVal := quoteFloat(q.Delta)
		min, max := filters.CallDeltaMin, filters.CallDeltaMax
		if side == domain.SidePut {
			deltaVal = math.Abs(deltaVal)
			min, max = filters.PutDeltaMin, filters.PutDeltaMax
		}
		// A NaN delta is never inside the band
		if math.IsNaN(deltaVal) || deltaVal < min || deltaVal > max {
			return Contract{}, false
		}
	} else {
		min, max := filters.CallOTMPercentMin, filters.CallOTMPercentMax
		if side == domain.SidePut {
			min, max = filters.PutOTMPercentMin, filters.PutOTMPercentMax
		}
		if otmPercent < min || otmPercent > max {
			return Contract{}, false
		}
	}

	premium := quoteFloat(q.Bid)
	if premium == 0 {
		premium = quoteFloat(q.LastPrice)
	}
	premium = zeroNaN(premium)

	// Capital requirement proxies: strike for a cash-secured put, spot for
	// a covered call. The same value anchors the yield metrics.
	collateral := q.Strike * 100
	denominator := q.Strike
	if side == domain.SideCall {
		collateral = price * 100
		denominator = price
	}

	weeklyReturn := 0.0
	annualizedReturn := 0.0
	if dte > 0 && denominator > 0 {
		weeklyReturn = (premium / denominator) / (float64(dte) / 7) * 100
		annualizedReturn = (premium / denominator) * (365 / float64(dte)) * 100
	}

	g := greeks.Compute(side, price, q.Strike, float64(dte)/365.0, rate, quoteFloat(q.ImpliedVolatility))

	s.log.Debug().
		Str("symbol", symbol).
		Str("expiration", expStr).
		Float64("strike", q.Strike).
		Str("side", string(side)).
		Msg("Contract passed income filters")

	return Contract{
		Ticker:            symbol,
		ContractSymbol:    q.ContractSymbol,
		ExpirationDate:    expStr,
		Strike:            q.Strike,
		Bid:               zeroNaN(quoteFloat(q.Bid)),
		Ask:               zeroNaN(quoteFloat(q.Ask)),
		LastPrice:         zeroNaN(quoteFloat(q.LastPrice)),
		Volume:            zeroNaN(volume),
		OpenInterest:      zeroNaN(openInterest),
		ImpliedVolatility: zeroNaN(quoteFloat(q.ImpliedVolatility)),
		Delta:             finiteDelta(q.Delta),
		DTE:               dte,
		CurrentPrice:      price,
		OTMPercent:        otmPercent,
		Premium:           premium,
		Greeks:            &g,
		Collateral:        &collateral,
		WeeklyReturn:      &weeklyReturn,
		AnnualizedReturn:  &annualizedReturn,
	}, true
}

// sideHasDelta reports whether at least one contract on this side carries a
// provider-supplied delta value.
func sideHasDelta(rows []domain.OptionQuote) bool {
	for _, q := range rows {
		if q.Delta != nil && !math.IsNaN(*q.Delta) {
			return true
		}
	}
	return false
}
