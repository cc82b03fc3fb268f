package screener

import "github.com/aristath/optionscout/internal/domain"

// MarketData is the gateway the screeners read market state through. The
// production implementation is the yahoo client; tests substitute a fake.
type MarketData interface {
	// LiveOrClosePrice resolves the current underlying price and reports
	// whether it came from the live feed or the last daily close.
	LiveOrClosePrice(symbol string) (float64, domain.PriceSource, error)

	// Expirations lists available option expiration dates (YYYY-MM-DD) in
	// provider order.
	Expirations(symbol string) ([]string, error)

	// OptionChain fetches both sides of the chain for one expiration.
	OptionChain(symbol, expiration string) (*domain.Chain, error)

	// RiskFreeRate returns the annualized risk-free rate as a decimal.
	// Implementations fall back to a constant instead of failing.
	RiskFreeRate() float64
}
