package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func spreadLegs(t *testing.T) models.LegSet {
	t.Helper()
	ls, err := models.NewLegSet(
		models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
		models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
	)
	require.NoError(t, err)
	return ls
}

func TestSaveAndGetStrategy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	strategy := &models.SavedStrategy{
		Name:   "Bull Call Spread",
		Symbol: "ACME",
		Notes:  "earnings play",
		Legs:   spreadLegs(t),
		Spot:   225,
		Step:   5,
	}

	require.NoError(t, s.SaveStrategy(ctx, strategy))
	assert.NotEmpty(t, strategy.ID, "save should assign an id")
	assert.False(t, strategy.CreatedAt.IsZero(), "save should stamp creation time")

	got, err := s.GetStrategy(ctx, strategy.ID)
	require.NoError(t, err)

	assert.Equal(t, strategy.ID, got.ID)
	assert.Equal(t, "Bull Call Spread", got.Name)
	assert.Equal(t, "ACME", got.Symbol)
	assert.Equal(t, "earnings play", got.Notes)
	assert.InDelta(t, 225, got.Spot, 1e-9)
	assert.InDelta(t, 5, got.Step, 1e-9)
	assert.Equal(t, strategy.Legs.Key(), got.Legs.Key(), "legs should round-trip")
	assert.WithinDuration(t, strategy.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetStrategyNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetStrategy(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)
}

func TestSaveStrategyValidatesLegs(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveStrategy(context.Background(), &models.SavedStrategy{Name: "Empty"})
	assert.ErrorIs(t, err, apperrors.ErrEmptyLegSet)
}

func TestSaveStrategyReplacesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	strategy := &models.SavedStrategy{Name: "Original", Legs: spreadLegs(t), Spot: 225}
	require.NoError(t, s.SaveStrategy(ctx, strategy))

	strategy.Name = "Renamed"
	strategy.Notes = "tightened stops"
	require.NoError(t, s.SaveStrategy(ctx, strategy))

	got, err := s.GetStrategy(ctx, strategy.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "tightened stops", got.Notes)

	all, err := s.ListStrategies(ctx, StrategyFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "replacing must not duplicate")
}

func TestListStrategies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seed := []*models.SavedStrategy{
		{Name: "Condor on ACME", Symbol: "ACME", Legs: spreadLegs(t), Spot: 225, CreatedAt: base},
		{Name: "Straddle on ACME", Symbol: "ACME", Legs: spreadLegs(t), Spot: 230, CreatedAt: base.Add(time.Hour)},
		{Name: "Collar on GLOBEX", Symbol: "GLOBEX", Legs: spreadLegs(t), Spot: 48, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, st := range seed {
		require.NoError(t, s.SaveStrategy(ctx, st))
	}

	t.Run("newest first", func(t *testing.T) {
		all, err := s.ListStrategies(ctx, StrategyFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Collar on GLOBEX", all[0].Name)
		assert.Equal(t, "Condor on ACME", all[2].Name)
	})

	t.Run("filter by symbol", func(t *testing.T) {
		acme, err := s.ListStrategies(ctx, StrategyFilter{Symbol: "ACME"})
		require.NoError(t, err)
		assert.Len(t, acme, 2)
		for _, st := range acme {
			assert.Equal(t, "ACME", st.Symbol)
		}
	})

	t.Run("filter by name substring", func(t *testing.T) {
		got, err := s.ListStrategies(ctx, StrategyFilter{Name: "straddle"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Straddle on ACME", got[0].Name)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := s.ListStrategies(ctx, StrategyFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := s.ListStrategies(ctx, StrategyFilter{Symbol: "INITECH"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDeleteStrategy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	strategy := &models.SavedStrategy{Name: "Doomed", Legs: spreadLegs(t), Spot: 225}
	require.NoError(t, s.SaveStrategy(ctx, strategy))
	require.NoError(t, s.SaveSnapshot(ctx, &models.Snapshot{
		StrategyID: strategy.ID,
		Spot:       225,
		NetCost:    700,
		MaxProfit:  models.Bounded(1300),
		MaxLoss:    models.Bounded(700),
	}))

	require.NoError(t, s.DeleteStrategy(ctx, strategy.ID))

	_, err := s.GetStrategy(ctx, strategy.ID)
	assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)

	snaps, err := s.GetSnapshots(ctx, strategy.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, snaps, "snapshots should be deleted with their strategy")

	t.Run("missing id", func(t *testing.T) {
		err := s.DeleteStrategy(ctx, "no-such-id")
		assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)
	})
}

func TestSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	strategy := &models.SavedStrategy{Name: "Long Call", Legs: spreadLegs(t), Spot: 221}
	require.NoError(t, s.SaveStrategy(ctx, strategy))

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	first := &models.Snapshot{
		StrategyID: strategy.ID,
		Spot:       221,
		NetCost:    3787.5,
		MaxProfit:  models.Unlimited(),
		MaxLoss:    models.Bounded(3787.5),
		Breakevens: []float64{257.875},
		CreatedAt:  base,
	}
	require.NoError(t, s.SaveSnapshot(ctx, first))
	assert.Positive(t, first.ID, "save should assign a row id")

	second := &models.Snapshot{
		StrategyID: strategy.ID,
		Spot:       230,
		NetCost:    3787.5,
		MaxProfit:  models.Unlimited(),
		MaxLoss:    models.Bounded(3787.5),
		Breakevens: []float64{257.875},
		CreatedAt:  base.Add(time.Hour),
	}
	require.NoError(t, s.SaveSnapshot(ctx, second))

	t.Run("round trip, newest first", func(t *testing.T) {
		snaps, err := s.GetSnapshots(ctx, strategy.ID, 0)
		require.NoError(t, err)
		require.Len(t, snaps, 2)

		newest := snaps[0]
		assert.InDelta(t, 230, newest.Spot, 1e-9)
		assert.True(t, newest.MaxProfit.Unbounded)
		assert.False(t, newest.MaxLoss.Unbounded)
		assert.InDelta(t, 3787.5, newest.MaxLoss.Value, 1e-9)
		require.Len(t, newest.Breakevens, 1)
		assert.InDelta(t, 257.875, newest.Breakevens[0], 1e-9)
	})

	t.Run("limit", func(t *testing.T) {
		snaps, err := s.GetSnapshots(ctx, strategy.ID, 1)
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.InDelta(t, 230, snaps[0].Spot, 1e-9)
	})

	t.Run("requires a strategy id", func(t *testing.T) {
		err := s.SaveSnapshot(ctx, &models.Snapshot{Spot: 100})
		assert.Error(t, err)
	})

	t.Run("unknown strategy has no snapshots", func(t *testing.T) {
		snaps, err := s.GetSnapshots(ctx, "no-such-id", 0)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}
