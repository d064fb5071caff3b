package payoff

import (
	"sort"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

// sampleEps is the relative spacing below which two sample prices are
// considered the same point.
const sampleEps = 1e-9

// Sample evaluates the strategy on an evenly spaced price grid over the
// domain, plus one exact sample at every distinct strike. The payoff of an
// option strategy is piecewise linear and bends only at strikes, so the
// returned polyline reproduces the payoff exactly.
//
// n is the even-grid sample count; values below two fall back to
// DefaultSamples. Points are sorted ascending by price with duplicates
// removed.
func Sample(ls models.LegSet, d Domain, n int) (models.Curve, error) {
	if !(d.Width() > 0) {
		return nil, apperrors.NewDomainError(d.Low, d.High)
	}
	if n < 2 {
		n = DefaultSamples
	}

	prices := make([]float64, 0, n+ls.Len())
	step := d.Width() / float64(n-1)
	for i := 0; i < n; i++ {
		prices = append(prices, d.Low+step*float64(i))
	}
	// The last grid point can land a hair off d.High; pin it.
	prices[len(prices)-1] = d.High

	for _, strike := range ls.Strikes() {
		if d.Contains(strike) {
			prices = append(prices, strike)
		}
	}

	sort.Float64s(prices)
	prices = dedupePrices(prices)

	curve := make(models.Curve, len(prices))
	for i, p := range prices {
		curve[i] = models.Point{Price: p, PnL: Evaluate(ls, p)}
	}
	return curve, nil
}

// dedupePrices removes near-equal neighbours from a sorted price slice.
func dedupePrices(prices []float64) []float64 {
	if len(prices) == 0 {
		return prices
	}
	out := prices[:1]
	for _, p := range prices[1:] {
		last := out[len(out)-1]
		tol := sampleEps * maxFloat(1, abs(last))
		if p-last > tol {
			out = append(out, p)
		}
	}
	return out
}

// maxFloat returns the maximum of two float64 values.
func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
