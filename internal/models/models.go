// Package models provides domain models for the strategy analytics engine.
package models

import (
	"fmt"
	"math"
	"strings"

	apperrors "options-strategist/internal/errors"
)

// Instrument represents the kind of contract a leg holds.
type Instrument string

const (
	InstrumentCall  Instrument = "CALL"
	InstrumentPut   Instrument = "PUT"
	InstrumentStock Instrument = "STOCK"
)

// Side represents the direction of a leg.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// DefaultMultiplier is the number of shares per option contract.
const DefaultMultiplier = 100

// Verb returns the order verb for display (BUY/SELL).
func (s Side) Verb() string {
	if s == SideShort {
		return "SELL"
	}
	return "BUY"
}

// ParseSide parses a side from user input. Accepts LONG/SHORT and the
// order verbs BUY/SELL.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY", "B":
		return SideLong, nil
	case "SHORT", "SELL", "S":
		return SideShort, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// ParseInstrument parses an instrument from user input.
func ParseInstrument(s string) (Instrument, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "C", "CE":
		return InstrumentCall, nil
	case "PUT", "P", "PE":
		return InstrumentPut, nil
	case "STOCK", "SHARES", "EQ":
		return InstrumentStock, nil
	}
	return "", fmt.Errorf("unknown instrument %q", s)
}

// Leg represents one position within a strategy: an option contract
// (CALL/PUT) or a stock holding, held LONG or SHORT.
//
// Option legs use Strike, Premium (per share), Quantity (contracts) and
// Multiplier (shares per contract). Stock legs use EntryPrice and Shares.
type Leg struct {
	Instrument Instrument `json:"instrument"`
	Side       Side       `json:"side"`
	Strike     float64    `json:"strike,omitempty"`
	Premium    float64    `json:"premium,omitempty"`
	Quantity   int        `json:"quantity,omitempty"`
	Multiplier int        `json:"multiplier,omitempty"`
	EntryPrice float64    `json:"entryPrice,omitempty"`
	Shares     int        `json:"shares,omitempty"`
}

// NewOptionLeg creates an option leg with the default contract multiplier.
func NewOptionLeg(side Side, instrument Instrument, strike, premium float64, quantity int) Leg {
	return Leg{
		Instrument: instrument,
		Side:       side,
		Strike:     strike,
		Premium:    premium,
		Quantity:   quantity,
		Multiplier: DefaultMultiplier,
	}
}

// NewStockLeg creates a stock leg.
func NewStockLeg(side Side, entryPrice float64, shares int) Leg {
	return Leg{
		Instrument: InstrumentStock,
		Side:       side,
		EntryPrice: entryPrice,
		Shares:     shares,
	}
}

// IsOption reports whether the leg is an option contract.
func (l Leg) IsOption() bool {
	return l.Instrument == InstrumentCall || l.Instrument == InstrumentPut
}

// mult returns the effective contract multiplier, defaulting when unset
// (legs decoded from JSON may omit it).
func (l Leg) mult() int {
	if l.Multiplier > 0 {
		return l.Multiplier
	}
	return DefaultMultiplier
}

// Size returns the number of shares the leg controls.
func (l Leg) Size() int {
	if l.Instrument == InstrumentStock {
		return l.Shares
	}
	return l.Quantity * l.mult()
}

// PayoffAt returns the leg's profit or loss if the underlying settles at
// the given price.
func (l Leg) PayoffAt(price float64) float64 {
	var perShare float64
	switch l.Instrument {
	case InstrumentCall:
		perShare = math.Max(0, price-l.Strike) - l.Premium
	case InstrumentPut:
		perShare = math.Max(0, l.Strike-price) - l.Premium
	case InstrumentStock:
		perShare = price - l.EntryPrice
	}
	if l.Side == SideShort {
		perShare = -perShare
	}
	return perShare * float64(l.Size())
}

// EntryCost returns the signed cost to open the leg: positive for debits,
// negative for credits. Option legs pay premium per share; stock legs pay
// their entry basis (short stock books the proceeds as a credit).
func (l Leg) EntryCost() float64 {
	perShare := l.Premium
	if !l.IsOption() {
		perShare = l.EntryPrice
	}
	cost := perShare * float64(l.Size())
	if l.Side == SideShort {
		return -cost
	}
	return cost
}

// Validate checks the leg's fields, reporting the first problem found.
// The index identifies the leg within its set (-1 for standalone legs).
func (l Leg) Validate(index int) error {
	switch l.Side {
	case SideLong, SideShort:
	default:
		return apperrors.NewLegError(index, "side", l.Side, "must be LONG or SHORT")
	}

	switch l.Instrument {
	case InstrumentCall, InstrumentPut:
		if l.Strike <= 0 || math.IsNaN(l.Strike) || math.IsInf(l.Strike, 0) {
			return apperrors.NewLegError(index, "strike", l.Strike, "must be a positive price")
		}
		if l.Premium < 0 || math.IsNaN(l.Premium) || math.IsInf(l.Premium, 0) {
			return apperrors.NewLegError(index, "premium", l.Premium, "must be zero or positive")
		}
		if l.Quantity < 1 {
			return apperrors.NewLegError(index, "quantity", l.Quantity, "must be at least one contract")
		}
		if l.Multiplier < 0 {
			return apperrors.NewLegError(index, "multiplier", l.Multiplier, "cannot be negative")
		}
	case InstrumentStock:
		if l.EntryPrice <= 0 || math.IsNaN(l.EntryPrice) || math.IsInf(l.EntryPrice, 0) {
			return apperrors.NewLegError(index, "entryPrice", l.EntryPrice, "must be a positive price")
		}
		if l.Shares < 1 {
			return apperrors.NewLegError(index, "shares", l.Shares, "must be at least one share")
		}
	default:
		return apperrors.NewLegError(index, "instrument", l.Instrument, "must be CALL, PUT or STOCK")
	}

	return nil
}

// String renders the leg in order-ticket form, e.g. "BUY 1 CALL 220 @ 37.88".
func (l Leg) String() string {
	if l.Instrument == InstrumentStock {
		return fmt.Sprintf("%s %d STOCK @ %.2f", l.Side.Verb(), l.Shares, l.EntryPrice)
	}
	return fmt.Sprintf("%s %d %s %g @ %.2f", l.Side.Verb(), l.Quantity, l.Instrument, l.Strike, l.Premium)
}
