package payoff

import (
	"sort"

	"options-strategist/internal/models"
)

// breakevenEps is the relative spacing below which two breakeven prices
// are considered the same crossing.
const breakevenEps = 1e-9

// Breakevens returns the strategy's breakeven prices in ascending order.
// Structures with a known closed form (single calls, single puts, vertical
// spreads) are solved exactly; everything else falls back to scanning the
// sampled curve for sign changes and interpolating the crossing. On the
// shared structures both methods agree to within fractions of a cent.
func Breakevens(ls models.LegSet, curve models.Curve) []float64 {
	if bes, ok := ClosedFormBreakevens(ls); ok {
		return bes
	}
	return CurveBreakevens(curve)
}

// ClosedFormBreakevens solves breakevens exactly for leg structures with a
// standard formula. Dispatch is structural: it looks only at the legs, not
// at any strategy name. The second result reports whether the structure
// was recognized.
func ClosedFormBreakevens(ls models.LegSet) ([]float64, bool) {
	legs := ls.Legs()

	switch len(legs) {
	case 1:
		leg := legs[0]
		if !leg.IsOption() {
			return nil, false
		}
		if leg.Instrument == models.InstrumentCall {
			return []float64{leg.Strike + leg.Premium}, true
		}
		be := leg.Strike - leg.Premium
		if be < 0 {
			be = 0
		}
		return []float64{be}, true

	case 2:
		return verticalSpreadBreakeven(legs[0], legs[1])
	}

	return nil, false
}

// verticalSpreadBreakeven handles two-leg same-instrument spreads with one
// long and one short leg of equal size at different strikes.
func verticalSpreadBreakeven(a, b models.Leg) ([]float64, bool) {
	if !a.IsOption() || !b.IsOption() || a.Instrument != b.Instrument {
		return nil, false
	}
	if a.Side == b.Side || a.Size() != b.Size() || a.Strike == b.Strike {
		return nil, false
	}

	lower, upper := a, b
	if lower.Strike > upper.Strike {
		lower, upper = upper, lower
	}
	width := upper.Strike - lower.Strike

	if a.Instrument == models.InstrumentCall {
		// Crossing sits between the strikes at the lower strike plus the
		// per-share premium difference, for debit and credit spreads alike.
		net := lower.Premium - upper.Premium
		if net < 0 || net > width {
			return nil, false
		}
		return []float64{lower.Strike + net}, true
	}

	net := upper.Premium - lower.Premium
	if net < 0 || net > width {
		return nil, false
	}
	return []float64{upper.Strike - net}, true
}

// CurveBreakevens locates breakevens on a sampled curve: exact zeros at
// the edge of a nonzero region, plus linearly interpolated crossings
// between samples of opposite sign. The curve must be sorted by price.
func CurveBreakevens(curve models.Curve) []float64 {
	if len(curve) == 0 {
		return []float64{}
	}

	var bes []float64
	for i, pt := range curve {
		if pt.PnL == 0 && zeroIsBoundary(curve, i) {
			bes = append(bes, pt.Price)
		}
		if i == 0 {
			continue
		}
		prev := curve[i-1]
		if prev.PnL*pt.PnL < 0 {
			bes = append(bes, crossing(prev, pt))
		}
	}

	sort.Float64s(bes)
	return dedupeBreakevens(bes)
}

// zeroIsBoundary reports whether the zero-P&L sample at index i borders a
// nonzero region. Interior points of a flat zero run are not breakevens.
func zeroIsBoundary(curve models.Curve, i int) bool {
	if i > 0 && curve[i-1].PnL != 0 {
		return true
	}
	if i < len(curve)-1 && curve[i+1].PnL != 0 {
		return true
	}
	return false
}

// crossing interpolates the zero crossing on the segment between a and b,
// which must have opposite P&L signs.
func crossing(a, b models.Point) float64 {
	t := -a.PnL / (b.PnL - a.PnL)
	return a.Price + t*(b.Price-a.Price)
}

// dedupeBreakevens removes near-equal neighbours from sorted breakevens.
func dedupeBreakevens(bes []float64) []float64 {
	if bes == nil {
		return []float64{}
	}
	out := bes[:1]
	for _, be := range bes[1:] {
		last := out[len(out)-1]
		tol := breakevenEps * maxFloat(1, abs(last))
		if be-last > tol {
			out = append(out, be)
		}
	}
	return out
}
