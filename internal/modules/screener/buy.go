package screener

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/optionscout/internal/domain"
	"github.com/aristath/optionscout/pkg/greeks"
)

// BuyScreener screens option chains for directional exposure: bullish calls
// and bearish puts, ranked by a composite score.
type BuyScreener struct {
	market MarketData
	log    zerolog.Logger
}

// NewBuyScreener creates a new buy screener
func NewBuyScreener(market MarketData, log zerolog.Logger) *BuyScreener {
	return &BuyScreener{
		market: market,
		log:    log.With().Str("screener", "buy").Logger(),
	}
}

// Analyze screens both sides of every ticker in the union of the two lists.
// A symbol appearing in both lists is processed once; first-seen order is
// kept so repeated runs over the same snapshot produce identical output.
func (s *BuyScreener) Analyze(putTickers, callTickers []string, filters Filters, today time.Time) (*BuyResult, []TickerReport) {
	result := &BuyResult{
		BullishCalls: []Contract{},
		BearishPuts:  []Contract{},
	}
	reports := []TickerReport{}

	rate := s.market.RiskFreeRate()

	for _, symbol := range dedupe(putTickers, callTickers) {
		calls, puts, err := s.screenTicker(symbol, filters, today, rate)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Skipping ticker")
			reports = append(reports, TickerReport{Symbol: symbol, Skipped: true, Reason: err.Error()})
			continue
		}
		result.BullishCalls = append(result.BullishCalls, calls...)
		result.BearishPuts = append(result.BearishPuts, puts...)
		reports = append(reports, TickerReport{Symbol: symbol, Contracts: len(calls) + len(puts)})
	}

	s.log.Info().
		Int("bullish_calls", len(result.BullishCalls)).
		Int("bearish_puts", len(result.BearishPuts)).
		Msg("Buy analysis complete")

	return result, reports
}

// screenTicker walks every expiration in the DTE window and evaluates calls
// then puts, mirroring the chain iteration order.
func (s *BuyScreener) screenTicker(symbol string, filters Filters, today time.Time, rate float64) (calls, puts []Contract, err error) {
	price, source, err := s.market.LiveOrClosePrice(symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve current price: %w", err)
	}
	if math.IsNaN(price) {
		return nil, nil, fmt.Errorf("current price for %s is not a number", symbol)
	}

	s.log.Info().
		Str("symbol", symbol).
		Float64("price", price).
		Str("source", string(source)).
		Msg("Resolved current price")

	expirations, err := s.market.Expirations(symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("could not list expirations: %w", err)
	}

	for _, expStr := range expirations {
		expDate, err := time.ParseInLocation("2006-01-02", expStr, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid expiration %q: %w", expStr, err)
		}

		dte := daysBetween(today, expDate)
		if float64(dte) < filters.DTEMin || float64(dte) > filters.DTEMax {
			continue
		}

		chain, err := s.market.OptionChain(symbol, expStr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not fetch chain for %s: %w", expStr, err)
		}

		for _, q := range chain.Calls {
			if c, ok := s.evaluate(symbol, domain.SideCall, q, expStr, dte, price, rate, filters); ok {
				calls = append(calls, c)
			}
		}
		for _, q := range chain.Puts {
			if c, ok := s.evaluate(symbol, domain.SidePut, q, expStr, dte, price, rate, filters); ok {
				puts = append(puts, c)
			}
		}
	}

	return calls, puts, nil
}

// evaluate applies the buy filter cascade to one contract. Delta is
// mandatory here: when the chain row has no delta, or carries the literal
// zero the provider uses as a placeholder, the pricing model fills it in and
// the computed greeks travel with the contract. A usable broker delta is
// preserved untouched and no greeks are attached.
func (s *BuyScreener) evaluate(symbol string, side domain.OptionSide, q domain.OptionQuote, expStr string, dte int, price, rate float64, filters Filters) (Contract, bool) {
	volume := quoteFloat(q.Volume)
	openInterest := quoteFloat(q.OpenInterest)

	deltaOut := q.Delta
	var deltaVal float64
	var computed *greeks.Result

	if q.Delta == nil || *q.Delta == 0 || math.IsNaN(*q.Delta) {
		g := greeks.Compute(side, price, q.Strike, float64(dte)/365.0, rate, quoteFloat(q.ImpliedVolatility))
		computed = &g
		deltaOut = g.Delta
		if g.Delta != nil {
			deltaVal = *g.Delta
		}
	} else {
		deltaVal = *q.Delta
	}

	if volume < filters.MinVolume {
		return Contract{}, false
	}
	if openInterest < filters.MinOpenInterest {
		return Contract{}, false
	}

	min, max := filters.BuyCallDeltaMin, filters.BuyCallDeltaMax
	if side == domain.SidePut {
		// Puts use the signed band: a bearish put has negative delta
		min, max = filters.BuyPutDeltaMin, filters.BuyPutDeltaMax
	}
	if deltaVal < min || deltaVal > max {
		return Contract{}, false
	}

	strength := deltaVal
	if side == domain.SidePut {
		strength = math.Abs(deltaVal)
	}
	buyScore := strength*100 + zeroNaN(volume)/100 + zeroNaN(openInterest)/1000

	s.log.Debug().
		Str("symbol", symbol).
		Str("expiration", expStr).
		Float64("strike", q.Strike).
		Str("side", string(side)).
		Float64("score", buyScore).
		Msg("Contract passed buy filters")

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
		Delta:             deltaOut,
		DTE:               dte,
		CurrentPrice:      price,
		OTMPercent:        otmPercent(side, price, q.Strike),
		Premium:           zeroNaN(quoteFloat(q.Ask)),
		Greeks:            computed,
		BuyScore:          &buyScore,
	}, true
}

// otmPercent is the signed distance between spot and strike, relative to
// spot, per option side.
func otmPercent(side domain.OptionSide, price, strike float64) float64 {
	if price <= 0 {
		return 0
	}
	if side == domain.SidePut {
		return (price - strike) / price * 100
	}
	return (strike - price) / price * 100
}

// dedupe merges the ticker lists, dropping empties and keeping first-seen
// order.
func dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, symbol := range list {
			if symbol == "" || seen[symbol] {
				continue
			}
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	return out
}
