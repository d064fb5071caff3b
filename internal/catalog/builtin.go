package catalog

import (
	"options-strategist/internal/models"
)

// BuiltinTemplates returns the built-in strategy templates. Offsets count
// strike steps from the at-the-money strike; stock legs anchor at spot and
// default to one contract's worth of shares.
func BuiltinTemplates() []models.StrategyTemplate {
	return []models.StrategyTemplate{
		{
			ID:          "long-call",
			Name:        "Long Call",
			Bias:        models.BiasBullish,
			Description: "Buy a call at the money. Unlimited upside, premium at risk.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 0},
			},
		},
		{
			ID:          "long-put",
			Name:        "Long Put",
			Bias:        models.BiasBearish,
			Description: "Buy a put at the money. Profits as the underlying falls.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: 0},
			},
		},
		{
			ID:          "covered-call",
			Name:        "Covered Call",
			Bias:        models.BiasBullish,
			Description: "Hold stock, sell an out-of-the-money call against it.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentStock},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
		{
			ID:          "cash-secured-put",
			Name:        "Cash-Secured Put",
			Bias:        models.BiasBullish,
			Description: "Sell an out-of-the-money put, ready to take delivery.",
			Legs: []models.TemplateLeg{
				{Side: models.SideShort, Instrument: models.InstrumentPut, OffsetSteps: -2},
			},
		},
		{
			ID:          "bull-call-spread",
			Name:        "Bull Call Spread",
			Bias:        models.BiasBullish,
			Description: "Buy a call at the money, sell a higher strike against it.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 0},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
		{
			ID:          "bear-put-spread",
			Name:        "Bear Put Spread",
			Bias:        models.BiasBearish,
			Description: "Buy a put at the money, sell a lower strike against it.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: 0},
				{Side: models.SideShort, Instrument: models.InstrumentPut, OffsetSteps: -2},
			},
		},
		{
			ID:          "bear-call-spread",
			Name:        "Bear Call Spread",
			Bias:        models.BiasBearish,
			Description: "Sell a call at the money, buy a higher strike for protection.",
			Legs: []models.TemplateLeg{
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 0},
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
		{
			ID:          "bull-put-spread",
			Name:        "Bull Put Spread",
			Bias:        models.BiasBullish,
			Description: "Sell a put at the money, buy a lower strike for protection.",
			Legs: []models.TemplateLeg{
				{Side: models.SideShort, Instrument: models.InstrumentPut, OffsetSteps: 0},
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: -2},
			},
		},
		{
			ID:          "straddle",
			Name:        "Long Straddle",
			Bias:        models.BiasNeutral,
			Description: "Buy a call and a put at the same strike. Profits on a big move either way.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 0},
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: 0},
			},
		},
		{
			ID:          "strangle",
			Name:        "Long Strangle",
			Bias:        models.BiasNeutral,
			Description: "Buy an out-of-the-money call and put. Cheaper than a straddle, needs a bigger move.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 2},
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: -2},
			},
		},
		{
			ID:          "iron-condor",
			Name:        "Iron Condor",
			Bias:        models.BiasNeutral,
			Description: "Sell an out-of-the-money put spread and call spread. Profits if the underlying stays in the range.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: -4},
				{Side: models.SideShort, Instrument: models.InstrumentPut, OffsetSteps: -2},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 2},
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 4},
			},
		},
		{
			ID:          "iron-butterfly",
			Name:        "Iron Butterfly",
			Bias:        models.BiasNeutral,
			Description: "Sell a straddle at the money, buy wings for protection.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: -2},
				{Side: models.SideShort, Instrument: models.InstrumentPut, OffsetSteps: 0},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 0},
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
		{
			ID:          "call-butterfly",
			Name:        "Long Call Butterfly",
			Bias:        models.BiasNeutral,
			Description: "Buy wings, sell two calls at the body. Peaks at the middle strike.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: -2},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 0, Quantity: 2},
				{Side: models.SideLong, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
		{
			ID:          "collar",
			Name:        "Collar",
			Bias:        models.BiasNeutral,
			Description: "Hold stock, buy a protective put and fund it with a covered call.",
			Legs: []models.TemplateLeg{
				{Side: models.SideLong, Instrument: models.InstrumentStock},
				{Side: models.SideLong, Instrument: models.InstrumentPut, OffsetSteps: -2},
				{Side: models.SideShort, Instrument: models.InstrumentCall, OffsetSteps: 2},
			},
		},
	}
}
