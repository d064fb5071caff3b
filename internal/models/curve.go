package models

import (
	"encoding/json"
	"fmt"
)

// Point is one sample of the payoff curve: profit or loss at a settlement
// price. It marshals as a [price, pnl] pair.
type Point struct {
	Price float64
	PnL   float64
}

// MarshalJSON encodes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Price, p.PnL})
}

// UnmarshalJSON decodes a [price, pnl] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Price, p.PnL = pair[0], pair[1]
	return nil
}

// Curve is a payoff polyline sampled in ascending price order. Strategies
// built from option legs are piecewise linear and bend only at strikes, so
// a curve that samples every strike reproduces the payoff exactly.
type Curve []Point

// PriceRange returns the lowest and highest sampled price.
func (c Curve) PriceRange() (lo, hi float64) {
	if len(c) == 0 {
		return 0, 0
	}
	return c[0].Price, c[len(c)-1].Price
}

// PnLRange returns the lowest and highest sampled profit/loss.
func (c Curve) PnLRange() (lo, hi float64) {
	if len(c) == 0 {
		return 0, 0
	}
	lo, hi = c[0].PnL, c[0].PnL
	for _, pt := range c[1:] {
		if pt.PnL < lo {
			lo = pt.PnL
		}
		if pt.PnL > hi {
			hi = pt.PnL
		}
	}
	return lo, hi
}

// Extremum is a best- or worst-case result that may have no finite bound
// (an uncovered short call loses without limit; a long call gains without
// limit). Unbounded is a value, not an error.
type Extremum struct {
	Value     float64
	Unbounded bool
}

// Bounded returns a finite extremum.
func Bounded(v float64) Extremum {
	return Extremum{Value: v}
}

// Unlimited returns an unbounded extremum.
func Unlimited() Extremum {
	return Extremum{Unbounded: true}
}

// String renders the extremum for display.
func (e Extremum) String() string {
	if e.Unbounded {
		return "Unlimited"
	}
	return fmt.Sprintf("%.2f", e.Value)
}

// MarshalJSON encodes a bounded extremum as a number and an unbounded one
// as the string "Unbounded".
func (e Extremum) MarshalJSON() ([]byte, error) {
	if e.Unbounded {
		return json.Marshal("Unbounded")
	}
	return json.Marshal(e.Value)
}

// UnmarshalJSON accepts either form.
func (e *Extremum) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Unbounded" {
			return fmt.Errorf("unknown extremum %q", s)
		}
		*e = Extremum{Unbounded: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Extremum{Value: v}
	return nil
}

// Segment is a maximal run of the payoff curve on one side of zero.
// Adjacent segments share their breakeven endpoint so the polylines meet
// exactly at the axis.
type Segment struct {
	Profit bool  `json:"profit"`
	Points Curve `json:"points"`
}

// Analysis is the full result of analyzing a leg set at a spot price.
type Analysis struct {
	Legs       LegSet     `json:"legs"`
	Spot       float64    `json:"spot"`
	Domain     [2]float64 `json:"domain"`
	Samples    Curve      `json:"samples"`
	Breakevens []float64  `json:"breakevens"`
	MaxProfit  Extremum   `json:"maxProfit"`
	MaxLoss    Extremum   `json:"maxLoss"`
	NetCost    float64    `json:"netCost"`
	Segments   []Segment  `json:"segments"`
}

// IsCredit reports whether the strategy was opened for a net credit.
func (a *Analysis) IsCredit() bool {
	return a.NetCost < 0
}

// Readout is a point-in-time view of a strategy at one underlying price:
// the profit or loss there and the heuristic chance of the underlying
// touching that price.
type Readout struct {
	Price  float64 `json:"price"`
	PnL    float64 `json:"pnl"`
	Chance float64 `json:"chance"`
}
