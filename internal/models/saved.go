package models

import "time"

// SavedStrategy is a persisted leg set with display metadata.
type SavedStrategy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Legs      LegSet    `json:"legs"`
	Spot      float64   `json:"spot"`
	Step      float64   `json:"step,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot records the summary numbers of one analysis run so saved
// strategies keep a history as the underlying moves.
type Snapshot struct {
	ID         int64     `json:"id"`
	StrategyID string    `json:"strategyId"`
	Spot       float64   `json:"spot"`
	NetCost    float64   `json:"netCost"`
	MaxProfit  Extremum  `json:"maxProfit"`
	MaxLoss    Extremum  `json:"maxLoss"`
	Breakevens []float64 `json:"breakevens"`
	CreatedAt  time.Time `json:"createdAt"`
}
