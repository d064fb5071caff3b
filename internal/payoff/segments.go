package payoff

import (
	"options-strategist/internal/models"
)

// SplitSegments divides a sampled curve into alternating profit and loss
// runs for rendering. Consecutive runs share their breakeven vertex: where
// the sign flips between two samples the interpolated zero crossing is
// appended to the outgoing run and starts the incoming one, so adjacent
// polylines meet exactly on the axis. The union of all segments
// reconstructs the curve.
//
// Zeros inside a run (tangent touches, flat stretches) do not split it; a
// run's flag reflects the sign of its nonzero points, with an all-zero
// curve reported as a single profit segment.
func SplitSegments(curve models.Curve) []models.Segment {
	if len(curve) == 0 {
		return []models.Segment{}
	}

	var segments []models.Segment
	current := models.Curve{curve[0]}
	curSign := pnlSign(curve[0].PnL)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1]
		pt := curve[i]
		s := pnlSign(pt.PnL)

		if prev.PnL*pt.PnL < 0 {
			// Sign flip between samples: split at the interpolated crossing.
			vertex := models.Point{Price: crossing(prev, pt), PnL: 0}
			current = append(current, vertex)
			segments = append(segments, models.Segment{Profit: curSign >= 0, Points: current})
			current = models.Curve{vertex, pt}
			curSign = s
			continue
		}

		if curSign == 0 && s != 0 {
			// Leading zeros adopt the first real sign.
			curSign = s
		}

		if s != 0 && curSign != 0 && s != curSign {
			// The previous sample sat exactly on the axis: it is the vertex.
			segments = append(segments, models.Segment{Profit: curSign >= 0, Points: current})
			current = models.Curve{prev, pt}
			curSign = s
			continue
		}

		current = append(current, pt)
	}

	segments = append(segments, models.Segment{Profit: curSign >= 0, Points: current})
	return segments
}

// pnlSign classifies a P&L value as profit (+1), loss (-1) or exactly
// breakeven (0).
func pnlSign(pnl float64) int {
	switch {
	case pnl > 0:
		return 1
	case pnl < 0:
		return -1
	}
	return 0
}
