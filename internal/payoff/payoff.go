// Package payoff computes expiration analytics for multi-leg option
// strategies: sampled payoff curves, breakevens, profit/loss extrema,
// curve segments and touch-chance readouts.
//
// Every function here is pure: no goroutines, no globals, identical inputs
// produce identical outputs. Hosts that recompute on every price tick are
// expected to reuse the sampled curve through Analyzer, which memoizes it
// per (leg set, domain).
package payoff

import (
	"options-strategist/internal/models"
)

// Defaults for curve construction and readouts.
const (
	// DefaultSamples is the number of evenly spaced curve samples.
	DefaultSamples = 50
	// DefaultSpanFactor sizes the base domain as a fraction of spot on
	// each side ([spot*0.7, spot*1.3]).
	DefaultSpanFactor = 0.30
	// DefaultMarginFactor pads the domain by a fraction of the strike
	// range once strikes force it wider than the base span.
	DefaultMarginFactor = 0.10
	// DefaultChanceWindow is the spot fraction at which the linear touch
	// chance falls to zero.
	DefaultChanceWindow = 0.50
)

// Evaluate returns the strategy's combined profit or loss if the
// underlying settles at the given price. It is the single payoff
// implementation shared by the sampler, breakeven locator, segment
// splitter and every host readout.
func Evaluate(ls models.LegSet, price float64) float64 {
	var total float64
	for i := 0; i < ls.Len(); i++ {
		total += ls.Leg(i).PayoffAt(price)
	}
	return total
}

// EvaluateAll evaluates the strategy at each of the given prices.
func EvaluateAll(ls models.LegSet, prices []float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = Evaluate(ls, p)
	}
	return out
}

// abs returns the absolute value of a float64.
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// legDirection returns +1 for long legs and -1 for short legs.
func legDirection(leg models.Leg) float64 {
	if leg.Side == models.SideShort {
		return -1
	}
	return 1
}

// rightTailSlope returns the payoff slope per price unit above the highest
// strike. Calls and stock contribute their full size there; puts are flat.
func rightTailSlope(ls models.LegSet) float64 {
	var slope float64
	for i := 0; i < ls.Len(); i++ {
		leg := ls.Leg(i)
		switch leg.Instrument {
		case models.InstrumentCall, models.InstrumentStock:
			slope += legDirection(leg) * float64(leg.Size())
		}
	}
	return slope
}
