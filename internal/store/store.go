// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"options-strategist/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Strategies
	SaveStrategy(ctx context.Context, strategy *models.SavedStrategy) error
	GetStrategy(ctx context.Context, id string) (*models.SavedStrategy, error)
	ListStrategies(ctx context.Context, filter StrategyFilter) ([]models.SavedStrategy, error)
	DeleteStrategy(ctx context.Context, id string) error

	// Analysis snapshots
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error
	GetSnapshots(ctx context.Context, strategyID string, limit int) ([]models.Snapshot, error)

	// Lifecycle
	Close() error
}

// StrategyFilter represents filters for querying saved strategies.
type StrategyFilter struct {
	Symbol string
	Name   string // substring match
	Limit  int
}
