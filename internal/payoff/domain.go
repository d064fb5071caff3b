package payoff

import (
	"math"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

// Domain is the price interval a curve is sampled over.
type Domain struct {
	Low  float64
	High float64
}

// Width returns the domain's price span.
func (d Domain) Width() float64 {
	return d.High - d.Low
}

// Contains reports whether the price lies inside the domain.
func (d Domain) Contains(price float64) bool {
	return price >= d.Low && price <= d.High
}

// DeriveDomain computes the sampling domain for a strategy at a spot price
// using the default span and margin factors.
func DeriveDomain(ls models.LegSet, spot float64) (Domain, error) {
	return DeriveDomainWith(ls, spot, DefaultSpanFactor, DefaultMarginFactor)
}

// DeriveDomainWith computes the sampling domain with explicit factors.
// The base interval is [spot*(1-span), spot*(1+span)]; if any strike falls
// outside it, the interval stretches to cover the strikes plus a margin of
// marginFactor times the strike range. The low edge never drops below
// zero. Domains are always derived this way, never taken from fixed axis
// tables, so any strike layout gets a usable window.
func DeriveDomainWith(ls models.LegSet, spot, spanFactor, marginFactor float64) (Domain, error) {
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return Domain{}, apperrors.NewSpotError(spot)
	}

	low := spot * (1 - spanFactor)
	high := spot * (1 + spanFactor)

	if strikes := ls.Strikes(); len(strikes) > 0 {
		minK := strikes[0]
		maxK := strikes[len(strikes)-1]
		margin := marginFactor * (maxK - minK)
		if minK-margin < low {
			low = minK - margin
		}
		if maxK+margin > high {
			high = maxK + margin
		}
	}

	if low < 0 {
		low = 0
	}

	if !(high > low) || math.IsNaN(low) || math.IsInf(high, 0) {
		return Domain{}, apperrors.NewDomainError(low, high)
	}

	return Domain{Low: low, High: high}, nil
}
