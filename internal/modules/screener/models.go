package screener

import (
	"math"
	"time"

	"github.com/aristath/optionscout/pkg/greeks"
)

// Contract is an enriched option contract as returned to clients. It carries
// the raw chain fields (absent provider values normalized to 0), the derived
// metrics shared by both strategies, and the strategy-specific fields as
// pointers so only the relevant ones serialize.
type Contract struct {
	Ticker            string  `json:"ticker"`
	ContractSymbol    string  `json:"contractSymbol,omitempty"`
	ExpirationDate    string  `json:"expirationDate"`
	Strike            float64 `json:"strike"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	LastPrice         float64 `json:"lastPrice"`
	Volume            float64 `json:"volume"`
	OpenInterest      float64 `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`

	// Delta is the broker-supplied delta when the chain carried one; the
	// buy screener replaces it with the model-computed value when the feed
	// left it missing or zeroed.
	Delta *float64 `json:"delta,omitempty"`

	DTE          int     `json:"DTE"`
	CurrentPrice float64 `json:"currentPrice"`
	OTMPercent   float64 `json:"otmPercent"`
	Premium      float64 `json:"premium"`

	// Greeks is always attached for income contracts (fields null when the
	// model fails). For buy contracts it is only attached when the broker
	// delta was missing and the model had to fill it in.
	Greeks *greeks.Result `json:"greeks,omitempty"`

	// Income strategy fields
	Collateral       *float64 `json:"collateral,omitempty"`
	WeeklyReturn     *float64 `json:"weeklyReturn,omitempty"`
	AnnualizedReturn *float64 `json:"annualizedReturn,omitempty"`

	// Buy strategy field
	BuyScore *float64 `json:"buyScore,omitempty"`
}

// IncomeResult groups income-screener output by contract side
type IncomeResult struct {
	Puts  []Contract `json:"puts"`
	Calls []Contract `json:"calls"`
}

// BuyResult groups buy-screener output by directional posture
type BuyResult struct {
	BullishCalls []Contract `json:"bullish_calls"`
	BearishPuts  []Contract `json:"bearish_puts"`
}

// TickerReport records how a single ticker fared during a screening run.
// A skipped ticker contributed nothing to the result buckets; the request
// as a whole still succeeds.
type TickerReport struct {
	Symbol    string `json:"symbol"`
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	Contracts int    `json:"contracts"`
}

// quoteFloat dereferences an optional provider value, treating absence as 0.
// NaN is passed through: the filter comparisons must see it (a NaN never
// compares below a minimum), and output normalization happens separately.
func quoteFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// zeroNaN normalizes NaN to 0 for output fields
func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// finiteDelta drops a NaN provider delta so it never reaches the JSON
// encoder, which cannot represent NaN.
func finiteDelta(v *float64) *float64 {
	if v != nil && math.IsNaN(*v) {
		return nil
	}
	return v
}

// daysBetween returns whole calendar days from today's date to the
// expiration date, ignoring any time-of-day component. The result is
// negative when the expiration has already passed; nothing here filters
// that out beyond the DTE bounds.
func daysBetween(today, expiration time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(expiration.Year(), expiration.Month(), expiration.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}
