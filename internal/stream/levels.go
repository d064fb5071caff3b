package stream

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"options-strategist/internal/models"
	"options-strategist/internal/notify"
)

// LevelKind identifies which analysis level a watch tracks.
type LevelKind string

const (
	// LevelBreakeven is a price where the strategy's expiry P&L is zero.
	LevelBreakeven LevelKind = "breakeven"
	// LevelStrike is a strike of one of the strategy's legs.
	LevelStrike LevelKind = "strike"
)

// LevelEvent describes the mark approaching or crossing a watched level.
type LevelEvent struct {
	Symbol    string
	Strategy  string
	Kind      LevelKind
	Level     float64
	Price     float64
	Distance  float64 // percent distance from the level
	Crossed   bool    // false while still approaching
	Timestamp time.Time
}

// LevelMonitor watches spot updates for strategy price levels.
// It implements the Consumer interface to receive updates from the Hub.
type LevelMonitor struct {
	notifier notify.Notifier
	watches  map[string][]*levelWatch // symbol -> watches
	mu       sync.RWMutex

	approachPercent float64
	notifyOnce      bool

	onApproaching func(LevelEvent)
	onCrossed     func(LevelEvent)
}

// levelWatch holds the runtime state of one watched strategy.
type levelWatch struct {
	strategy  string
	levels    []watchedLevel
	lastPrice float64
	notified  map[levelKey]bool
}

type watchedLevel struct {
	kind  LevelKind
	price float64
}

// levelKey tracks notification state per level and event type.
type levelKey struct {
	index   int
	crossed bool
}

// LevelMonitorConfig holds configuration for the level monitor.
type LevelMonitorConfig struct {
	ApproachPercent float64 // percent distance that counts as approaching
	NotifyOnce      bool    // suppress repeat events per level
}

// DefaultLevelMonitorConfig returns the default configuration.
func DefaultLevelMonitorConfig() LevelMonitorConfig {
	return LevelMonitorConfig{
		ApproachPercent: 0.5,
		NotifyOnce:      true,
	}
}

// NewLevelMonitor creates a level monitor with the default configuration.
// The notifier may be nil, in which case only callbacks fire.
func NewLevelMonitor(notifier notify.Notifier) *LevelMonitor {
	return NewLevelMonitorWithConfig(notifier, DefaultLevelMonitorConfig())
}

// NewLevelMonitorWithConfig creates a level monitor with a custom config.
func NewLevelMonitorWithConfig(notifier notify.Notifier, config LevelMonitorConfig) *LevelMonitor {
	if config.ApproachPercent <= 0 {
		config.ApproachPercent = DefaultLevelMonitorConfig().ApproachPercent
	}
	return &LevelMonitor{
		notifier:        notifier,
		watches:         make(map[string][]*levelWatch),
		approachPercent: config.ApproachPercent,
		notifyOnce:      config.NotifyOnce,
	}
}

// SetOnApproaching sets a callback for when the mark nears a level.
func (m *LevelMonitor) SetOnApproaching(fn func(LevelEvent)) {
	m.onApproaching = fn
}

// SetOnCrossed sets a callback for when the mark crosses a level.
func (m *LevelMonitor) SetOnCrossed(fn func(LevelEvent)) {
	m.onCrossed = fn
}

// Watch registers every breakeven and distinct strike of the analysis as
// levels to track for the symbol.
func (m *LevelMonitor) Watch(symbol, strategy string, analysis *models.Analysis) {
	var levels []watchedLevel
	for _, be := range analysis.Breakevens {
		levels = append(levels, watchedLevel{kind: LevelBreakeven, price: be})
	}
	for _, strike := range analysis.Legs.Strikes() {
		levels = append(levels, watchedLevel{kind: LevelStrike, price: strike})
	}
	m.add(symbol, strategy, levels)
}

// WatchLevels registers explicit prices to track for the symbol.
func (m *LevelMonitor) WatchLevels(symbol, strategy string, kind LevelKind, prices []float64) {
	levels := make([]watchedLevel, 0, len(prices))
	for _, p := range prices {
		levels = append(levels, watchedLevel{kind: kind, price: p})
	}
	m.add(symbol, strategy, levels)
}

func (m *LevelMonitor) add(symbol, strategy string, levels []watchedLevel) {
	if len(levels) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watches[symbol] = append(m.watches[symbol], &levelWatch{
		strategy: strategy,
		levels:   levels,
		notified: make(map[levelKey]bool),
	})
}

// Unwatch removes all watches for a symbol.
func (m *LevelMonitor) Unwatch(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watches, symbol)
}

// Reset clears notification state for a symbol so its levels fire again.
func (m *LevelMonitor) Reset(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watches[symbol] {
		w.notified = make(map[levelKey]bool)
		w.lastPrice = 0
	}
}

// LevelCount returns the total number of watched levels.
func (m *LevelMonitor) LevelCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, watches := range m.watches {
		for _, w := range watches {
			count += len(w.levels)
		}
	}
	return count
}

// OnUpdate implements the Consumer interface.
func (m *LevelMonitor) OnUpdate(update models.SpotUpdate) {
	m.Check(update)
}

// Symbols implements the Consumer interface.
func (m *LevelMonitor) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.watches))
	for symbol := range m.watches {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Check checks all watched levels against one update. Updates may arrive
// from concurrent goroutines, so state changes happen under the lock and
// callbacks fire after it is released.
func (m *LevelMonitor) Check(update models.SpotUpdate) {
	m.mu.Lock()
	var fired []LevelEvent
	for _, w := range m.watches[update.Symbol] {
		fired = append(fired, m.collectEvents(w, update)...)
		w.lastPrice = update.Price
	}
	m.mu.Unlock()

	for _, e := range fired {
		m.dispatch(e)
	}
}

// collectEvents checks one watch against the current update. A crossing
// suppresses the approach event for the same level on the same tick.
func (m *LevelMonitor) collectEvents(w *levelWatch, update models.SpotUpdate) []LevelEvent {
	var events []LevelEvent
	for i, level := range w.levels {
		if level.price <= 0 {
			continue
		}

		distance := percentDistance(update.Price, level.price)
		crossedNow := w.lastPrice > 0 && hasCrossed(w.lastPrice, update.Price, level.price)

		if crossedNow {
			key := levelKey{index: i, crossed: true}
			if !m.notifyOnce || !w.notified[key] {
				w.notified[key] = true
				w.notified[levelKey{index: i}] = true
				events = append(events, newLevelEvent(w, level, update, distance, true))
			}
			continue
		}

		if math.Abs(distance) <= m.approachPercent {
			key := levelKey{index: i}
			if !m.notifyOnce || !w.notified[key] {
				w.notified[key] = true
				events = append(events, newLevelEvent(w, level, update, distance, false))
			}
		}
	}
	return events
}

// percentDistance is the signed percent distance from level to price.
func percentDistance(price, level float64) float64 {
	if level == 0 {
		return 0
	}
	return ((price - level) / level) * 100
}

// hasCrossed reports whether the move from prev to cur straddles level.
func hasCrossed(prev, cur, level float64) bool {
	if prev < level && cur >= level {
		return true
	}
	if prev > level && cur <= level {
		return true
	}
	return false
}

func newLevelEvent(w *levelWatch, level watchedLevel, update models.SpotUpdate, distance float64, crossed bool) LevelEvent {
	event := LevelEvent{
		Symbol:    update.Symbol,
		Strategy:  w.strategy,
		Kind:      level.kind,
		Level:     level.price,
		Price:     update.Price,
		Distance:  distance,
		Crossed:   crossed,
		Timestamp: update.Timestamp,
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}

// dispatch runs callbacks and the notifier for one event.
func (m *LevelMonitor) dispatch(event LevelEvent) {
	if event.Crossed {
		if m.onCrossed != nil {
			m.onCrossed(event)
		}
	} else {
		if m.onApproaching != nil {
			m.onApproaching(event)
		}
	}

	if m.notifier != nil {
		m.sendNotification(event)
	}
}

// sendNotification sends an event through the notifier.
func (m *LevelMonitor) sendNotification(event LevelEvent) {
	ctx := context.Background()

	var title, message string
	if event.Crossed {
		title = fmt.Sprintf("%s crossed %s %.2f", event.Symbol, event.Kind, event.Level)
		message = fmt.Sprintf("mark %.2f, strategy %s", event.Price, event.Strategy)
	} else {
		title = fmt.Sprintf("%s approaching %s %.2f", event.Symbol, event.Kind, event.Level)
		message = fmt.Sprintf("mark %.2f (%.2f%% away), strategy %s",
			event.Price, math.Abs(event.Distance), event.Strategy)
	}

	notification := notify.Notification{
		Type:    notify.NotificationAlert,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"symbol":   event.Symbol,
			"strategy": event.Strategy,
			"kind":     string(event.Kind),
			"level":    event.Level,
			"price":    event.Price,
			"distance": event.Distance,
			"crossed":  event.Crossed,
		},
		Timestamp: event.Timestamp,
	}

	m.notifier.Send(ctx, notification)
}
