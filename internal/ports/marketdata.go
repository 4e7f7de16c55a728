package ports

import (
	"context"
	"time"

	"macdStreamBot/internal/domain"
)

// MarketDataSource supplies recent price samples for a symbol.
// This abstraction decouples the streaming loop from the concrete data vendor.
type MarketDataSource interface {
	// FetchPrices returns the chronologically ordered samples covering the
	// lookback window ending now. Transient failures (network timeouts,
	// vendor hiccups) are reported wrapped in ErrTransientData so the caller
	// can skip the cycle instead of aborting.
	FetchPrices(ctx context.Context, symbol string, lookback time.Duration) (domain.PriceSeries, error)
}
