// Package quote provides spot price sources for live strategy monitoring.
package quote

import (
	"context"

	"options-strategist/internal/models"
)

// Source delivers spot price updates for subscribed symbols.
// Implementations push updates through the OnUpdate handler until
// Disconnect is called or the Connect context is cancelled.
type Source interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Subscribe(symbols []string) error
	Unsubscribe(symbols []string) error
	OnUpdate(handler func(models.SpotUpdate))
	OnError(handler func(error))
}
