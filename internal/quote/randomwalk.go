// Package quote provides spot price sources for live strategy monitoring.
package quote

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"options-strategist/internal/models"
)

// RandomWalk implements Source with a seeded random walk per symbol.
// It backs the watch command when no real feed is wired up; it simulates
// price motion and is not market data.
type RandomWalk struct {
	config RandomWalkConfig
	rng    *rand.Rand

	prices     map[string]float64
	subscribed map[string]bool

	onUpdate func(models.SpotUpdate)
	onError  func(error)

	done    chan struct{}
	started bool
	mu      sync.RWMutex
}

// RandomWalkConfig holds configuration for the simulated source.
type RandomWalkConfig struct {
	// Interval is the time between updates for each subscribed symbol.
	Interval time.Duration
	// Volatility scales the per-update fractional price move.
	Volatility float64
	// Seed fixes the walk for reproducible runs. Zero seeds from the clock.
	Seed int64
	// Prices sets the starting price per symbol. Symbols subscribed
	// without a starting price begin at DefaultStartPrice.
	Prices map[string]float64
}

// DefaultStartPrice is used for symbols subscribed without a starting price.
const DefaultStartPrice = 100.0

// DefaultRandomWalkConfig returns the default simulated source configuration.
func DefaultRandomWalkConfig() RandomWalkConfig {
	return RandomWalkConfig{
		Interval:   time.Second,
		Volatility: 0.002,
	}
}

// NewRandomWalk creates a simulated source with default configuration.
func NewRandomWalk() *RandomWalk {
	return NewRandomWalkWithConfig(DefaultRandomWalkConfig())
}

// NewRandomWalkWithConfig creates a simulated source with custom configuration.
func NewRandomWalkWithConfig(config RandomWalkConfig) *RandomWalk {
	if config.Interval <= 0 {
		config.Interval = DefaultRandomWalkConfig().Interval
	}
	if config.Volatility <= 0 {
		config.Volatility = DefaultRandomWalkConfig().Volatility
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	prices := make(map[string]float64, len(config.Prices))
	for symbol, price := range config.Prices {
		prices[symbol] = price
	}

	return &RandomWalk{
		config:     config,
		rng:        rand.New(rand.NewSource(seed)),
		prices:     prices,
		subscribed: make(map[string]bool),
		done:       make(chan struct{}),
	}
}

// Connect starts the walk loop. Updates stop when ctx is cancelled or
// Disconnect is called.
func (w *RandomWalk) Connect(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Disconnect stops the walk loop.
func (w *RandomWalk) Disconnect() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}
	close(w.done)
	w.started = false
	return nil
}

// Subscribe starts emitting updates for the given symbols.
func (w *RandomWalk) Subscribe(symbols []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, symbol := range symbols {
		if symbol == "" {
			return fmt.Errorf("empty symbol")
		}
		w.subscribed[symbol] = true
		if _, ok := w.prices[symbol]; !ok {
			w.prices[symbol] = DefaultStartPrice
		}
	}
	return nil
}

// Unsubscribe stops emitting updates for the given symbols.
func (w *RandomWalk) Unsubscribe(symbols []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, symbol := range symbols {
		delete(w.subscribed, symbol)
	}
	return nil
}

// OnUpdate sets the update handler.
func (w *RandomWalk) OnUpdate(handler func(models.SpotUpdate)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = handler
}

// OnError sets the error handler.
func (w *RandomWalk) OnError(handler func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = handler
}

// SetPrice pins the current price for a symbol.
func (w *RandomWalk) SetPrice(symbol string, price float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prices[symbol] = price
}

// Price returns the current price for a symbol.
func (w *RandomWalk) Price(symbol string) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.prices[symbol]
}

// loop advances every subscribed symbol once per interval.
func (w *RandomWalk) loop(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			w.step()
		}
	}
}

// step moves each subscribed price and fires the update handler.
// Handlers are called outside the lock; downstream fan-out is expected
// to be non-blocking.
func (w *RandomWalk) step() {
	w.mu.Lock()
	updates := make([]models.SpotUpdate, 0, len(w.subscribed))
	now := time.Now()
	for symbol := range w.subscribed {
		price := w.prices[symbol]
		move := price * w.config.Volatility * (w.rng.Float64()*2 - 1)
		price += move
		if price <= 0 {
			price = w.prices[symbol]
		}
		w.prices[symbol] = price
		updates = append(updates, models.SpotUpdate{
			Symbol:    symbol,
			Price:     price,
			Timestamp: now,
		})
	}
	handler := w.onUpdate
	w.mu.Unlock()

	if handler == nil {
		return
	}
	for _, update := range updates {
		handler(update)
	}
}

// Ensure RandomWalk implements Source interface
var _ Source = (*RandomWalk)(nil)
