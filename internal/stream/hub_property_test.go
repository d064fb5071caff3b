package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-strategist/internal/models"
)

// Property: for any number of subscribers and any update, all subscribers
// should receive the update within a reasonable timeout, unless they are slow
// consumers (in which case the update may be dropped to prevent blocking).
func TestProperty_AllSubscribersReceiveUpdatesWithinTimeout(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	// Valid symbols for testing
	symbols := []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN"}

	// Generator for number of subscribers (1-5)
	subscriberCountGen := gen.IntRange(1, 5)

	// Generator for number of updates to publish (1-20)
	updateCountGen := gen.IntRange(1, 20)

	// Generator for symbol index
	symbolIdxGen := gen.IntRange(0, len(symbols)-1)

	// Generator for price
	priceGen := gen.Float64Range(10.0, 1000.0)

	properties.Property("All fast subscribers receive all updates within timeout", prop.ForAll(
		func(subscriberCount int, updateCount int, symbolIdx int, basePrice float64) bool {
			symbol := symbols[symbolIdx]

			// Create hub with large buffer to avoid drops
			config := HubConfig{
				BufferSize:           1000,
				SubscriberBufferSize: 100,
				BroadcastTimeout:     100 * time.Millisecond,
			}
			hub := NewHubWithConfig(config)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Start the hub
			hub.Start(ctx)
			defer hub.Stop()

			// Create subscribers
			var wg sync.WaitGroup
			receivedCounts := make([]int64, subscriberCount)

			channels := make([]<-chan models.SpotUpdate, subscriberCount)
			for i := 0; i < subscriberCount; i++ {
				channels[i] = hub.Subscribe(symbol)
			}

			// Start goroutines to receive updates
			for i := 0; i < subscriberCount; i++ {
				wg.Add(1)
				go func(idx int, ch <-chan models.SpotUpdate) {
					defer wg.Done()
					timeout := time.After(5 * time.Second)
					for {
						select {
						case _, ok := <-ch:
							if !ok {
								return
							}
							atomic.AddInt64(&receivedCounts[idx], 1)
							if atomic.LoadInt64(&receivedCounts[idx]) >= int64(updateCount) {
								return
							}
						case <-timeout:
							return
						}
					}
				}(i, channels[i])
			}

			// Give subscribers time to set up
			time.Sleep(10 * time.Millisecond)

			// Publish updates
			for i := 0; i < updateCount; i++ {
				update := models.SpotUpdate{
					Symbol:    symbol,
					Price:     basePrice + float64(i)*0.05,
					Timestamp: time.Now(),
				}
				hub.Publish(update)
				time.Sleep(1 * time.Millisecond) // Small delay between publishes
			}

			// Wait for all receivers to finish
			wg.Wait()

			// Verify all subscribers received all updates
			for i := 0; i < subscriberCount; i++ {
				received := atomic.LoadInt64(&receivedCounts[i])
				if received != int64(updateCount) {
					// Allow for some dropped updates due to timing
					// At least 90% should be received
					if float64(received)/float64(updateCount) < 0.9 {
						return false
					}
				}
			}

			return true
		},
		subscriberCountGen,
		updateCountGen,
		symbolIdxGen,
		priceGen,
	))

	properties.TestingRun(t)
}

// TestProperty_SlowConsumersDoNotBlockOthers tests that slow consumers don't block fast ones.
func TestProperty_SlowConsumersDoNotBlockOthers(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "MSFT", "NVDA"}

	properties.Property("Slow consumers do not block fast consumers", prop.ForAll(
		func(symbolIdx int, basePrice float64) bool {
			symbol := symbols[symbolIdx%len(symbols)]

			// Create hub with small subscriber buffer to trigger slow consumer behavior
			config := HubConfig{
				BufferSize:           100,
				SubscriberBufferSize: 5, // Small buffer to trigger drops
				BroadcastTimeout:     1 * time.Millisecond,
			}
			hub := NewHubWithConfig(config)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			hub.Start(ctx)
			defer hub.Stop()

			// Create a fast subscriber
			fastCh := hub.Subscribe(symbol)
			var fastReceived int64

			// Create a slow subscriber (doesn't read from channel)
			_ = hub.Subscribe(symbol)

			// Start fast receiver
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				timeout := time.After(2 * time.Second)
				for {
					select {
					case _, ok := <-fastCh:
						if !ok {
							return
						}
						atomic.AddInt64(&fastReceived, 1)
						if atomic.LoadInt64(&fastReceived) >= 10 {
							return
						}
					case <-timeout:
						return
					}
				}
			}()

			// Give subscriber time to set up
			time.Sleep(10 * time.Millisecond)

			// Publish updates rapidly
			for i := 0; i < 20; i++ {
				update := models.SpotUpdate{
					Symbol:    symbol,
					Price:     basePrice + float64(i)*0.05,
					Timestamp: time.Now(),
				}
				hub.Publish(update)
			}

			wg.Wait()

			// Fast subscriber should have received at least some updates
			// even though slow subscriber is blocking
			received := atomic.LoadInt64(&fastReceived)
			return received > 0
		},
		gen.IntRange(0, 2),
		gen.Float64Range(10.0, 1000.0),
	))

	properties.TestingRun(t)
}

// TestProperty_SubscribersReceiveCorrectSymbolUpdates tests that subscribers only
// receive updates for their subscribed symbols.
func TestProperty_SubscribersReceiveCorrectSymbolUpdates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN"}

	properties.Property("Subscribers only receive updates for their subscribed symbol", prop.ForAll(
		func(subscribedSymbolIdx int, publishedSymbolIdx int) bool {
			subscribedSymbol := symbols[subscribedSymbolIdx%len(symbols)]
			publishedSymbol := symbols[publishedSymbolIdx%len(symbols)]

			hub := NewHub()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			hub.Start(ctx)
			defer hub.Stop()

			// Subscribe to one symbol
			ch := hub.Subscribe(subscribedSymbol)

			var received int64
			var receivedSymbol string
			var mu sync.Mutex

			// Start receiver
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				timeout := time.After(500 * time.Millisecond)
				select {
				case update, ok := <-ch:
					if ok {
						atomic.AddInt64(&received, 1)
						mu.Lock()
						receivedSymbol = update.Symbol
						mu.Unlock()
					}
				case <-timeout:
				}
			}()

			// Give subscriber time to set up
			time.Sleep(10 * time.Millisecond)

			// Publish update for a symbol
			update := models.SpotUpdate{
				Symbol:    publishedSymbol,
				Price:     100.0,
				Timestamp: time.Now(),
			}
			hub.Publish(update)

			wg.Wait()

			// If we received an update, it should be for the subscribed symbol
			if atomic.LoadInt64(&received) > 0 {
				mu.Lock()
				defer mu.Unlock()
				return receivedSymbol == subscribedSymbol
			}

			// If we didn't receive, it should be because symbols don't match
			return subscribedSymbol != publishedSymbol
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
