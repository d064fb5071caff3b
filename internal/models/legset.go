package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	apperrors "options-strategist/internal/errors"
)

// LegSet is an immutable, ordered collection of legs analyzed as a single
// strategy. Construct with NewLegSet; the zero value is empty and fails
// validation.
type LegSet struct {
	legs []Leg
}

// NewLegSet builds a validated leg set. The input slice is copied so later
// mutation of the caller's slice cannot change the set.
func NewLegSet(legs ...Leg) (LegSet, error) {
	if len(legs) == 0 {
		return LegSet{}, apperrors.ErrEmptyLegSet
	}
	for i, leg := range legs {
		if err := leg.Validate(i); err != nil {
			return LegSet{}, err
		}
	}
	out := make([]Leg, len(legs))
	copy(out, legs)
	return LegSet{legs: out}, nil
}

// Len returns the number of legs.
func (s LegSet) Len() int {
	return len(s.legs)
}

// Leg returns the leg at position i.
func (s LegSet) Leg(i int) Leg {
	return s.legs[i]
}

// Legs returns a copy of the legs in order.
func (s LegSet) Legs() []Leg {
	out := make([]Leg, len(s.legs))
	copy(out, s.legs)
	return out
}

// Validate checks that the set is non-empty and every leg is well formed.
func (s LegSet) Validate() error {
	if len(s.legs) == 0 {
		return apperrors.ErrEmptyLegSet
	}
	for i, leg := range s.legs {
		if err := leg.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// NetCost returns the combined cost to enter the set, option premiums
// plus stock basis: positive for net debit strategies, negative for net
// credit.
func (s LegSet) NetCost() float64 {
	var total float64
	for _, leg := range s.legs {
		total += leg.EntryCost()
	}
	return total
}

// Strikes returns the distinct option strikes in ascending order.
func (s LegSet) Strikes() []float64 {
	seen := make(map[float64]bool, len(s.legs))
	strikes := make([]float64, 0, len(s.legs))
	for _, leg := range s.legs {
		if !leg.IsOption() || seen[leg.Strike] {
			continue
		}
		seen[leg.Strike] = true
		strikes = append(strikes, leg.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// HasOptions reports whether the set contains at least one option leg.
func (s LegSet) HasOptions() bool {
	for _, leg := range s.legs {
		if leg.IsOption() {
			return true
		}
	}
	return false
}

// Key returns a deterministic fingerprint of the set, suitable as a cache
// key. Two sets with the same legs in the same order share a key.
func (s LegSet) Key() string {
	var b strings.Builder
	for i, leg := range s.legs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(string(leg.Side))
		b.WriteByte('|')
		b.WriteString(string(leg.Instrument))
		b.WriteByte('|')
		if leg.IsOption() {
			b.WriteString(strconv.FormatFloat(leg.Strike, 'g', -1, 64))
			b.WriteByte('|')
			b.WriteString(strconv.FormatFloat(leg.Premium, 'g', -1, 64))
			b.WriteByte('|')
			b.WriteString(strconv.Itoa(leg.Quantity))
			b.WriteByte('|')
			b.WriteString(strconv.Itoa(leg.mult()))
		} else {
			b.WriteString(strconv.FormatFloat(leg.EntryPrice, 'g', -1, 64))
			b.WriteByte('|')
			b.WriteString(strconv.Itoa(leg.Shares))
		}
	}
	return b.String()
}

// String renders the set in order-ticket form.
func (s LegSet) String() string {
	parts := make([]string, len(s.legs))
	for i, leg := range s.legs {
		parts[i] = leg.String()
	}
	return strings.Join(parts, " + ")
}

// MarshalJSON encodes the set as a plain array of legs.
func (s LegSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.legs)
}

// UnmarshalJSON decodes and validates a leg array.
func (s *LegSet) UnmarshalJSON(data []byte) error {
	var legs []Leg
	if err := json.Unmarshal(data, &legs); err != nil {
		return err
	}
	set, err := NewLegSet(legs...)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
