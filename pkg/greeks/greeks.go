// Package greeks provides analytical Black-Scholes option sensitivities.
package greeks

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/optionscout/internal/domain"
)

// Result holds the four computed sensitivities. A nil field means the value
// could not be computed. Computation is all-or-nothing: either all four
// fields are set or all four are nil.
type Result struct {
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Theta *float64 `json:"theta"`
	Vega  *float64 `json:"vega"`
}

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Compute calculates delta, gamma, theta and vega for a European option.
//
//	side:   put or call
//	spot:   underlying price
//	strike: contract strike price
//	t:      time to expiration in years
//	rate:   risk-free rate (annualized, e.g. 0.05)
//	iv:     implied volatility (annualized, e.g. 0.35)
//
// Theta is expressed per calendar day and vega per 1% change in volatility,
// matching the conventions of analytical pricing libraries. Inputs that make
// the model degenerate (t <= 0, iv <= 0, non-positive prices) and non-finite
// outputs all yield the empty Result.
func Compute(side domain.OptionSide, spot, strike, t, rate, iv float64) Result {
	if t <= 0 || iv <= 0 || spot <= 0 || strike <= 0 {
		return Result{}
	}
	if !isFinite(spot) || !isFinite(strike) || !isFinite(t) || !isFinite(rate) || !isFinite(iv) {
		return Result{}
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+0.5*iv*iv)*t) / (iv * sqrtT)
	d2 := d1 - iv*sqrtT

	pdfD1 := stdNormal.Prob(d1)

	var delta, theta float64
	if side == domain.SideCall {
		delta = stdNormal.CDF(d1)
		theta = -(spot*pdfD1*iv)/(2*sqrtT) - rate*strike*math.Exp(-rate*t)*stdNormal.CDF(d2)
	} else {
		delta = stdNormal.CDF(d1) - 1
		theta = -(spot*pdfD1*iv)/(2*sqrtT) + rate*strike*math.Exp(-rate*t)*stdNormal.CDF(-d2)
	}

	gamma := pdfD1 / (spot * iv * sqrtT)
	vega := spot * pdfD1 * sqrtT

	// Per-day theta, per-1%-vol vega
	theta /= 365.0
	vega /= 100.0

	if !isFinite(delta) || !isFinite(gamma) || !isFinite(theta) || !isFinite(vega) {
		return Result{}
	}

	return Result{
		Delta: &delta,
		Gamma: &gamma,
		Theta: &theta,
		Vega:  &vega,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
