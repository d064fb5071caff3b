// Package stream provides real-time spot update distribution.
package stream

import (
	"context"
	"sync"
	"time"

	"options-strategist/internal/models"
	"options-strategist/internal/quote"
)

// HubConfig holds configuration for the update hub.
type HubConfig struct {
	// BufferSize is the size of the internal update channel buffer.
	BufferSize int
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
	// BroadcastTimeout is the maximum time to wait when sending to a subscriber.
	BroadcastTimeout time.Duration
	// SlowConsumerDropThreshold is the number of consecutive drops before logging.
	SlowConsumerDropThreshold int
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		BufferSize:                1000,
		SubscriberBufferSize:      100,
		BroadcastTimeout:          10 * time.Millisecond,
		SlowConsumerDropThreshold: 10,
	}
}

// Hub distributes spot updates to multiple consumers.
// It implements a fan-out pattern where updates from a single source
// are distributed to multiple subscribers via channels.
type Hub struct {
	config      HubConfig
	source      quote.Source
	mu          sync.RWMutex
	subscribers map[string][]*Subscriber
	updateChan  chan models.SpotUpdate
	done        chan struct{}
	started     bool
	consumers   []Consumer
	consumersMu sync.RWMutex

	// Metrics
	updatesReceived  uint64
	updatesBroadcast uint64
	updatesDropped   uint64
	metricsMu        sync.RWMutex
}

// Subscriber represents a channel subscriber with metadata.
type Subscriber struct {
	ID           string
	Channel      chan models.SpotUpdate
	DroppedCount int
	CreatedAt    time.Time
}

// NewHub creates a new update hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a new update hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	return &Hub{
		config:      config,
		subscribers: make(map[string][]*Subscriber),
		updateChan:  make(chan models.SpotUpdate, config.BufferSize),
		done:        make(chan struct{}),
		consumers:   make([]Consumer, 0),
	}
}

// NewHubWithSource creates a new update hub fed by a price source.
func NewHubWithSource(source quote.Source) *Hub {
	h := NewHub()
	h.source = source
	return h
}

// SetSource sets the price source for the hub.
func (h *Hub) SetSource(source quote.Source) {
	h.source = source
}

// Start begins the hub's distribution loop.
// It starts a goroutine that listens for updates and broadcasts them to subscribers.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	h.mu.Unlock()

	// Start the broadcast goroutine
	go h.broadcastLoop(ctx)

	// If we have a source, connect and set up handlers
	if h.source != nil {
		h.source.OnUpdate(func(update models.SpotUpdate) {
			h.Publish(update)
		})

		h.source.OnError(func(err error) {
			// The source handles its own recovery; nothing to do here
		})

		if err := h.source.Connect(ctx); err != nil {
			return err
		}
	}

	return nil
}

// broadcastLoop is the main loop that distributes updates to subscribers.
func (h *Hub) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case update := <-h.updateChan:
			h.metricsMu.Lock()
			h.updatesReceived++
			h.metricsMu.Unlock()

			h.broadcast(update)
			h.notifyConsumers(update)
		}
	}
}

// Stop stops the hub and closes all subscriber channels.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return
	}

	close(h.done)
	h.started = false

	// Close all subscriber channels
	for symbol, subs := range h.subscribers {
		for _, sub := range subs {
			close(sub.Channel)
		}
		delete(h.subscribers, symbol)
	}

	// Disconnect source if present
	if h.source != nil {
		h.source.Disconnect()
	}
}

// Subscribe adds a subscriber for a symbol and returns a channel to receive updates.
func (h *Hub) Subscribe(symbol string) <-chan models.SpotUpdate {
	return h.SubscribeWithID(symbol, "")
}

// SubscribeWithID adds a subscriber with a specific ID for a symbol.
func (h *Hub) SubscribeWithID(symbol, id string) <-chan models.SpotUpdate {
	ch := make(chan models.SpotUpdate, h.config.SubscriberBufferSize)
	sub := &Subscriber{
		ID:        id,
		Channel:   ch,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.subscribers[symbol] = append(h.subscribers[symbol], sub)
	h.mu.Unlock()

	// Subscribe to source if available
	if h.source != nil {
		h.source.Subscribe([]string{symbol})
	}

	return ch
}

// SubscribeMultiple subscribes to multiple symbols at once.
func (h *Hub) SubscribeMultiple(symbols []string) map[string]<-chan models.SpotUpdate {
	result := make(map[string]<-chan models.SpotUpdate)
	for _, symbol := range symbols {
		result[symbol] = h.Subscribe(symbol)
	}
	return result
}

// Unsubscribe removes a subscriber channel for a symbol.
func (h *Hub) Unsubscribe(symbol string, ch <-chan models.SpotUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[symbol]
	for i, sub := range subs {
		if sub.Channel == ch {
			// Close the channel
			close(sub.Channel)
			// Remove from slice
			h.subscribers[symbol] = append(subs[:i], subs[i+1:]...)
			break
		}
	}

	// If no more subscribers for this symbol, unsubscribe from source
	if len(h.subscribers[symbol]) == 0 {
		delete(h.subscribers, symbol)
		if h.source != nil {
			h.source.Unsubscribe([]string{symbol})
		}
	}
}

// UnsubscribeAll removes all subscribers for a symbol.
func (h *Hub) UnsubscribeAll(symbol string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[symbol]
	for _, sub := range subs {
		close(sub.Channel)
	}
	delete(h.subscribers, symbol)

	if h.source != nil {
		h.source.Unsubscribe([]string{symbol})
	}
}

// Publish sends an update to the hub for distribution.
// This is non-blocking - if the internal buffer is full, the update is dropped.
func (h *Hub) Publish(update models.SpotUpdate) {
	select {
	case h.updateChan <- update:
	default:
		// Drop update if channel is full (slow consumer protection)
		h.metricsMu.Lock()
		h.updatesDropped++
		h.metricsMu.Unlock()
	}
}

// PublishWithTimeout sends an update with a timeout.
// Returns true if the update was published, false if it timed out.
func (h *Hub) PublishWithTimeout(update models.SpotUpdate, timeout time.Duration) bool {
	select {
	case h.updateChan <- update:
		return true
	case <-time.After(timeout):
		h.metricsMu.Lock()
		h.updatesDropped++
		h.metricsMu.Unlock()
		return false
	}
}

// broadcast sends an update to all subscribers of that symbol.
// Uses non-blocking sends to prevent slow consumers from blocking others.
func (h *Hub) broadcast(update models.SpotUpdate) {
	h.mu.RLock()
	subs := h.subscribers[update.Symbol]
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.Channel <- update:
			h.metricsMu.Lock()
			h.updatesBroadcast++
			h.metricsMu.Unlock()
		default:
			// Skip slow consumers - non-blocking
			sub.DroppedCount++
			h.metricsMu.Lock()
			h.updatesDropped++
			h.metricsMu.Unlock()
		}
	}
}

// BroadcastAll sends an update to all subscribers regardless of symbol.
func (h *Hub) BroadcastAll(update models.SpotUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, subs := range h.subscribers {
		for _, sub := range subs {
			select {
			case sub.Channel <- update:
			default:
				sub.DroppedCount++
			}
		}
	}
}

// GetSubscriberCount returns the number of subscribers for a symbol.
func (h *Hub) GetSubscriberCount(symbol string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[symbol])
}

// GetTotalSubscriberCount returns the total number of subscribers across all symbols.
func (h *Hub) GetTotalSubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, subs := range h.subscribers {
		count += len(subs)
	}
	return count
}

// GetSubscribedSymbols returns all symbols with active subscribers.
func (h *Hub) GetSubscribedSymbols() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	symbols := make([]string, 0, len(h.subscribers))
	for symbol := range h.subscribers {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// GetMetrics returns hub metrics.
func (h *Hub) GetMetrics() HubMetrics {
	h.metricsMu.RLock()
	defer h.metricsMu.RUnlock()

	return HubMetrics{
		UpdatesReceived:  h.updatesReceived,
		UpdatesBroadcast: h.updatesBroadcast,
		UpdatesDropped:   h.updatesDropped,
		Subscribers:      h.GetTotalSubscriberCount(),
		Symbols:          len(h.GetSubscribedSymbols()),
	}
}

// HubMetrics contains hub performance metrics.
type HubMetrics struct {
	UpdatesReceived  uint64
	UpdatesBroadcast uint64
	UpdatesDropped   uint64
	Subscribers      int
	Symbols          int
}

// IsStarted returns whether the hub is running.
func (h *Hub) IsStarted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

// Consumer represents an update consumer.
type Consumer interface {
	// OnUpdate is called when a new spot update is received.
	OnUpdate(update models.SpotUpdate)
	// Symbols returns the symbols this consumer is interested in.
	// Return nil or empty slice to receive all updates.
	Symbols() []string
}

// RegisterConsumer adds a consumer to receive updates.
// Each consumer is notified in its own goroutine.
func (h *Hub) RegisterConsumer(consumer Consumer) {
	h.consumersMu.Lock()
	h.consumers = append(h.consumers, consumer)
	h.consumersMu.Unlock()
}

// UnregisterConsumer removes a consumer.
func (h *Hub) UnregisterConsumer(consumer Consumer) {
	h.consumersMu.Lock()
	defer h.consumersMu.Unlock()

	for i, c := range h.consumers {
		if c == consumer {
			h.consumers = append(h.consumers[:i], h.consumers[i+1:]...)
			break
		}
	}
}

// notifyConsumers sends an update to all registered consumers.
// Each consumer is notified in a separate goroutine to prevent blocking.
func (h *Hub) notifyConsumers(update models.SpotUpdate) {
	h.consumersMu.RLock()
	consumers := make([]Consumer, len(h.consumers))
	copy(consumers, h.consumers)
	h.consumersMu.RUnlock()

	for _, consumer := range consumers {
		symbols := consumer.Symbols()
		// If consumer has no symbol filter, or update symbol matches
		if len(symbols) == 0 || containsSymbol(symbols, update.Symbol) {
			// Run in goroutine to prevent blocking
			go consumer.OnUpdate(update)
		}
	}
}

// containsSymbol checks if a symbol is in the list.
func containsSymbol(symbols []string, symbol string) bool {
	for _, s := range symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// ConsumerFunc is a function adapter for Consumer interface.
type ConsumerFunc struct {
	symbols    []string
	onUpdateFn func(models.SpotUpdate)
}

// NewConsumerFunc creates a new ConsumerFunc.
func NewConsumerFunc(symbols []string, onUpdate func(models.SpotUpdate)) *ConsumerFunc {
	return &ConsumerFunc{
		symbols:    symbols,
		onUpdateFn: onUpdate,
	}
}

// OnUpdate implements Consumer.
func (c *ConsumerFunc) OnUpdate(update models.SpotUpdate) {
	if c.onUpdateFn != nil {
		c.onUpdateFn(update)
	}
}

// Symbols implements Consumer.
func (c *ConsumerFunc) Symbols() []string {
	return c.symbols
}
