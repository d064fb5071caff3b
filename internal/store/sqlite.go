// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Saved strategies
	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		symbol TEXT,
		notes TEXT,
		legs TEXT NOT NULL,
		spot REAL NOT NULL,
		step REAL,
		created_at DATETIME NOT NULL
	);

	-- Analysis snapshots per strategy
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		strategy_id TEXT NOT NULL,
		spot REAL NOT NULL,
		net_cost REAL NOT NULL,
		max_profit REAL,
		max_profit_unbounded INTEGER DEFAULT 0,
		max_loss REAL,
		max_loss_unbounded INTEGER DEFAULT 0,
		breakevens TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (strategy_id) REFERENCES strategies(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_strategies_symbol ON strategies(symbol);
	CREATE INDEX IF NOT EXISTS idx_strategies_created ON strategies(created_at);
	CREATE INDEX IF NOT EXISTS idx_snapshots_strategy ON snapshots(strategy_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveStrategy inserts or replaces a saved strategy. A missing id gets a
// fresh UUID; a zero CreatedAt gets the current time.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, strategy *models.SavedStrategy) error {
	if strategy == nil {
		return fmt.Errorf("nil strategy")
	}
	if err := strategy.Legs.Validate(); err != nil {
		return err
	}
	if strategy.ID == "" {
		strategy.ID = uuid.NewString()
	}
	if strategy.CreatedAt.IsZero() {
		strategy.CreatedAt = time.Now().UTC()
	}

	legsJSON, err := json.Marshal(strategy.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO strategies (id, name, symbol, notes, legs, spot, step, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, strategy.ID, strategy.Name, strategy.Symbol, strategy.Notes, string(legsJSON), strategy.Spot, strategy.Step, strategy.CreatedAt)
	if err != nil {
		return apperrors.NewStoreError("save", "strategy", err)
	}

	return nil
}

// GetStrategy retrieves a saved strategy by id.
func (s *SQLiteStore) GetStrategy(ctx context.Context, id string) (*models.SavedStrategy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, symbol, notes, legs, spot, step, created_at
		FROM strategies WHERE id = ?
	`, id)

	strategy, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrStrategyNotFound, "strategy %q", id)
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", "strategy", err)
	}
	return strategy, nil
}

// ListStrategies retrieves saved strategies, newest first.
func (s *SQLiteStore) ListStrategies(ctx context.Context, filter StrategyFilter) ([]models.SavedStrategy, error) {
	query := `
		SELECT id, name, symbol, notes, legs, spot, step, created_at
		FROM strategies
	`
	var conds []string
	var args []interface{}

	if filter.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, filter.Symbol)
	}
	if filter.Name != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "strategies", err)
	}
	defer rows.Close()

	var strategies []models.SavedStrategy
	for rows.Next() {
		strategy, err := scanStrategy(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan", "strategy", err)
		}
		strategies = append(strategies, *strategy)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", "strategies", err)
	}

	return strategies, nil
}

// DeleteStrategy removes a saved strategy and its snapshots.
func (s *SQLiteStore) DeleteStrategy(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("delete", "strategy", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE strategy_id = ?`, id); err != nil {
		return apperrors.NewStoreError("delete", "snapshots", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM strategies WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete", "strategy", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete", "strategy", err)
	}
	if affected == 0 {
		return apperrors.Wrapf(apperrors.ErrStrategyNotFound, "strategy %q", id)
	}

	return tx.Commit()
}

// SaveSnapshot records the summary numbers of one analysis run.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snapshot.StrategyID == "" {
		return fmt.Errorf("snapshot requires a strategy id")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	breakevens, err := json.Marshal(snapshot.Breakevens)
	if err != nil {
		return fmt.Errorf("failed to encode breakevens: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (strategy_id, spot, net_cost, max_profit, max_profit_unbounded,
			max_loss, max_loss_unbounded, breakevens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snapshot.StrategyID, snapshot.Spot, snapshot.NetCost,
		extremumValue(snapshot.MaxProfit), boolToInt(snapshot.MaxProfit.Unbounded),
		extremumValue(snapshot.MaxLoss), boolToInt(snapshot.MaxLoss.Unbounded),
		string(breakevens), snapshot.CreatedAt)
	if err != nil {
		return apperrors.NewStoreError("save", "snapshot", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		snapshot.ID = id
	}

	return nil
}

// GetSnapshots retrieves snapshots for a strategy, newest first.
func (s *SQLiteStore) GetSnapshots(ctx context.Context, strategyID string, limit int) ([]models.Snapshot, error) {
	query := `
		SELECT id, strategy_id, spot, net_cost, max_profit, max_profit_unbounded,
			max_loss, max_loss_unbounded, breakevens, created_at
		FROM snapshots WHERE strategy_id = ?
		ORDER BY created_at DESC
	`
	args := []interface{}{strategyID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "snapshots", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		var maxProfit, maxLoss sql.NullFloat64
		var profitUnbounded, lossUnbounded int
		var breakevens sql.NullString

		if err := rows.Scan(&snap.ID, &snap.StrategyID, &snap.Spot, &snap.NetCost,
			&maxProfit, &profitUnbounded, &maxLoss, &lossUnbounded,
			&breakevens, &snap.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("scan", "snapshot", err)
		}

		snap.MaxProfit = scanExtremum(maxProfit, profitUnbounded)
		snap.MaxLoss = scanExtremum(maxLoss, lossUnbounded)
		if breakevens.Valid {
			json.Unmarshal([]byte(breakevens.String), &snap.Breakevens)
		}

		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", "snapshots", err)
	}

	return snapshots, nil
}

// rowScanner covers sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row rowScanner) (*models.SavedStrategy, error) {
	var strategy models.SavedStrategy
	var symbol, notes sql.NullString
	var step sql.NullFloat64
	var legsJSON string

	if err := row.Scan(&strategy.ID, &strategy.Name, &symbol, &notes,
		&legsJSON, &strategy.Spot, &step, &strategy.CreatedAt); err != nil {
		return nil, err
	}

	strategy.Symbol = symbol.String
	strategy.Notes = notes.String
	strategy.Step = step.Float64

	if err := json.Unmarshal([]byte(legsJSON), &strategy.Legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs: %w", err)
	}

	return &strategy, nil
}

func extremumValue(e models.Extremum) sql.NullFloat64 {
	if e.Unbounded {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: e.Value, Valid: true}
}

func scanExtremum(v sql.NullFloat64, unbounded int) models.Extremum {
	if unbounded != 0 {
		return models.Unlimited()
	}
	return models.Bounded(v.Float64)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
