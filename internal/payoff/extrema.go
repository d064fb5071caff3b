package payoff

import (
	"options-strategist/internal/models"
)

// Extrema returns the strategy's best and worst case at expiration across
// all settlement prices in [0, inf).
//
// The estimate is analytic rather than sample-scanning: beyond the highest
// strike the payoff is linear with the right-tail slope, so a positive
// slope means unlimited profit and a negative slope unlimited loss. The
// left side is floored at a settlement price of zero, where puts and short
// stock reach their full value. Between the tails the payoff bends only at
// strikes, so the finite candidates are the payoff at zero and at each
// strike. An unbounded side is a value (Unlimited), never an error.
//
// MaxLoss is reported as a positive magnitude; a structure whose payoff
// never goes below zero reports a max loss of zero.
func Extrema(ls models.LegSet) (maxProfit, maxLoss models.Extremum) {
	slope := rightTailSlope(ls)

	best := Evaluate(ls, 0)
	worst := best
	for _, strike := range ls.Strikes() {
		pnl := Evaluate(ls, strike)
		if pnl > best {
			best = pnl
		}
		if pnl < worst {
			worst = pnl
		}
	}

	if slope > 0 {
		maxProfit = models.Unlimited()
	} else {
		maxProfit = models.Bounded(best)
	}

	switch {
	case slope < 0:
		maxLoss = models.Unlimited()
	case worst < 0:
		maxLoss = models.Bounded(-worst)
	default:
		maxLoss = models.Bounded(0)
	}

	return maxProfit, maxLoss
}
