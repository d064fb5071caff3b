package payoff

// ChanceEstimator scores how likely the underlying is to reach a price,
// as a percentage. Implementations are swappable; hosts with a real
// probability model plug it in here.
type ChanceEstimator interface {
	// Chance returns the estimated chance, in [0, 100], of the underlying
	// touching price given the current spot.
	Chance(spot, price float64) float64
}

// LinearDistance is the default estimator: the chance falls off linearly
// with distance from spot and reaches zero once the price is a full
// window (as a fraction of spot) away.
//
// This is a display heuristic for ranking nearby prices, not a
// probability model. It knows nothing of volatility, time to expiry or
// drift, and deliberately avoids Black-Scholes.
type LinearDistance struct {
	// Window is the fraction of spot at which the chance reaches zero.
	Window float64
}

// NewLinearDistance creates a LinearDistance estimator. Non-positive
// windows fall back to DefaultChanceWindow.
func NewLinearDistance(window float64) LinearDistance {
	if window <= 0 {
		window = DefaultChanceWindow
	}
	return LinearDistance{Window: window}
}

// Chance implements ChanceEstimator.
func (e LinearDistance) Chance(spot, price float64) float64 {
	if spot <= 0 || price < 0 {
		return 0
	}
	window := e.Window
	if window <= 0 {
		window = DefaultChanceWindow
	}
	distance := abs(price-spot) / (spot * window)
	if distance >= 1 {
		return 0
	}
	return (1 - distance) * 100
}
