package models

import (
	"fmt"
	"strings"

	apperrors "options-strategist/internal/errors"
)

// Bias is the directional outlook a strategy expresses.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

// ParseBias parses a directional bias from user input.
func ParseBias(s string) (Bias, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BULLISH", "BULL":
		return BiasBullish, nil
	case "BEARISH", "BEAR":
		return BiasBearish, nil
	case "NEUTRAL", "FLAT":
		return BiasNeutral, nil
	}
	return "", fmt.Errorf("unknown bias %q", s)
}

// TemplateLeg defines one leg of a strategy template. Strikes are relative:
// OffsetSteps counts strike steps away from the at-the-money strike, so the
// same template works at any spot price and step size.
type TemplateLeg struct {
	Side        Side       `json:"side" yaml:"side"`
	Instrument  Instrument `json:"instrument" yaml:"instrument"`
	OffsetSteps int        `json:"strikeOffsetSteps" yaml:"offset_steps"`
	Quantity    int        `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// StrategyTemplate is a reusable strategy definition: an ordered list of
// relative legs plus display metadata. Templates carry no prices; the
// builder resolves strikes and premiums at analysis time.
type StrategyTemplate struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Bias        Bias          `json:"bias" yaml:"bias"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Legs        []TemplateLeg `json:"legs" yaml:"legs"`
}

// Validate checks the template definition.
func (t StrategyTemplate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return apperrors.NewTemplateError(t.ID, "template id is required", nil)
	}
	if len(t.Legs) == 0 {
		return apperrors.NewTemplateError(t.ID, "template has no legs", apperrors.ErrEmptyLegSet)
	}
	switch t.Bias {
	case BiasBullish, BiasBearish, BiasNeutral, "":
	default:
		return apperrors.NewTemplateError(t.ID, fmt.Sprintf("unknown bias %q", t.Bias), nil)
	}
	for i, leg := range t.Legs {
		switch leg.Side {
		case SideLong, SideShort:
		default:
			return apperrors.NewTemplateError(t.ID, fmt.Sprintf("leg %d: unknown side %q", i, leg.Side), nil)
		}
		switch leg.Instrument {
		case InstrumentCall, InstrumentPut:
		case InstrumentStock:
			// Stock legs anchor at spot, offsets do not apply.
			if leg.OffsetSteps != 0 {
				return apperrors.NewTemplateError(t.ID, fmt.Sprintf("leg %d: stock legs take no strike offset", i), nil)
			}
		default:
			return apperrors.NewTemplateError(t.ID, fmt.Sprintf("leg %d: unknown instrument %q", i, leg.Instrument), nil)
		}
		if leg.Quantity < 0 {
			return apperrors.NewTemplateError(t.ID, fmt.Sprintf("leg %d: negative quantity", i), nil)
		}
	}
	return nil
}
