package models

import "time"

// SpotUpdate is a price tick for an underlying symbol.
type SpotUpdate struct {
	Symbol    string
	Price     float64
	Timestamp time.Time
}
