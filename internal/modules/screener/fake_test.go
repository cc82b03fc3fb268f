package screener

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/optionscout/internal/domain"
)

// fakeMarketData is an in-memory MarketData used across screener tests
type fakeMarketData struct {
	prices      map[string]float64
	priceErrs   map[string]error
	expirations map[string][]string
	chains      map[string]*domain.Chain
	rate        float64
	priceCalls  map[string]int
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{
		prices:      map[string]float64{},
		priceErrs:   map[string]error{},
		expirations: map[string][]string{},
		chains:      map[string]*domain.Chain{},
		rate:        0.05,
		priceCalls:  map[string]int{},
	}
}

func (f *fakeMarketData) LiveOrClosePrice(symbol string) (float64, domain.PriceSource, error) {
	f.priceCalls[symbol]++
	if err, ok := f.priceErrs[symbol]; ok {
		return 0, "", err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return 0, "", fmt.Errorf("no price for %s", symbol)
	}
	return price, domain.PriceSourceClose, nil
}

func (f *fakeMarketData) Expirations(symbol string) ([]string, error) {
	return f.expirations[symbol], nil
}

func (f *fakeMarketData) OptionChain(symbol, expiration string) (*domain.Chain, error) {
	chain, ok := f.chains[symbol+"|"+expiration]
	if !ok {
		return &domain.Chain{}, nil
	}
	return chain, nil
}

func (f *fakeMarketData) RiskFreeRate() float64 {
	return f.rate
}

// addChain registers a chain for symbol at an expiration the given number of
// days after today, returning the expiration date string.
func (f *fakeMarketData) addChain(symbol string, today time.Time, days int, chain *domain.Chain) string {
	exp := today.AddDate(0, 0, days).Format("2006-01-02")
	f.expirations[symbol] = append(f.expirations[symbol], exp)
	f.chains[symbol+"|"+exp] = chain
	return exp
}

func f64(v float64) *float64 {
	return &v
}

func nan() *float64 {
	v := math.NaN()
	return &v
}

var testToday = time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
