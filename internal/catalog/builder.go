package catalog

import (
	"math"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

// DefaultStrikeStep is the strike spacing used when a host passes none.
const DefaultStrikeStep = 5.0

// RoundToStep rounds a price to the nearest multiple of step.
func RoundToStep(value, step float64) float64 {
	return math.Round(value/step) * step
}

// Pricer supplies option premiums while resolving a template into legs.
// Hosts with an option-chain feed implement this with real quotes.
type Pricer interface {
	// Premium returns the per-share premium for an option at the given
	// strike with the underlying at spot.
	Premium(instrument models.Instrument, strike, spot float64) float64
}

// SyntheticPricer is the default premium source: intrinsic value plus a
// time value that decays linearly as the strike moves away from spot.
// It is a deterministic stand-in so templates resolve without market
// data; it is not a pricing model.
type SyntheticPricer struct {
	// ATMFraction is the at-the-money time value as a fraction of spot.
	ATMFraction float64
	// DecayWidth is the moneyness distance, as a fraction of spot, at
	// which time value reaches zero.
	DecayWidth float64
}

// NewSyntheticPricer returns a pricer with the default shape.
func NewSyntheticPricer() SyntheticPricer {
	return SyntheticPricer{
		ATMFraction: 0.035,
		DecayWidth:  0.25,
	}
}

// Premium implements Pricer. Results are rounded to cents so resolved
// legs print cleanly.
func (p SyntheticPricer) Premium(instrument models.Instrument, strike, spot float64) float64 {
	if spot <= 0 || strike <= 0 {
		return 0
	}

	var intrinsic float64
	switch instrument {
	case models.InstrumentCall:
		intrinsic = math.Max(0, spot-strike)
	case models.InstrumentPut:
		intrinsic = math.Max(0, strike-spot)
	default:
		return 0
	}

	distance := math.Abs(strike-spot) / (spot * p.DecayWidth)
	timeValue := spot * p.ATMFraction * math.Max(0, 1-distance)

	return math.Round((intrinsic+timeValue)*100) / 100
}

// BuildLegs resolves a strategy template into concrete, priced legs.
//
// The at-the-money strike is spot rounded to the nearest step multiple;
// each option leg lands OffsetSteps steps away from it. Premiums come
// from the pricer (SyntheticPricer when nil). A zero step uses
// DefaultStrikeStep. Stock legs anchor at spot with the template share
// count, defaulting to one contract's worth.
func BuildLegs(tpl models.StrategyTemplate, spot, step float64, pricer Pricer) (models.LegSet, error) {
	if err := tpl.Validate(); err != nil {
		return models.LegSet{}, err
	}
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return models.LegSet{}, apperrors.NewSpotError(spot)
	}
	if step == 0 {
		step = DefaultStrikeStep
	}
	if step < 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return models.LegSet{}, apperrors.Wrapf(apperrors.ErrInvalidStep, "strike step %g", step)
	}
	if pricer == nil {
		pricer = NewSyntheticPricer()
	}

	atm := RoundToStep(spot, step)

	legs := make([]models.Leg, 0, len(tpl.Legs))
	for _, spec := range tpl.Legs {
		qty := spec.Quantity
		if qty == 0 {
			qty = 1
		}

		if spec.Instrument == models.InstrumentStock {
			shares := spec.Quantity
			if shares == 0 {
				shares = models.DefaultMultiplier
			}
			legs = append(legs, models.NewStockLeg(spec.Side, spot, shares))
			continue
		}

		strike := atm + float64(spec.OffsetSteps)*step
		premium := pricer.Premium(spec.Instrument, strike, spot)
		legs = append(legs, models.NewOptionLeg(spec.Side, spec.Instrument, strike, premium, qty))
	}

	set, err := models.NewLegSet(legs...)
	if err != nil {
		return models.LegSet{}, apperrors.Wrapf(err, "building %s", tpl.ID)
	}
	return set, nil
}
