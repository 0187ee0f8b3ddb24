package ledger

import (
	"context"

	"sjsage522/pricewatcher/internal/scraper"
)

// Ledger represents the append-only store of price observations
type Ledger interface {
	// Append persists one observation. A nil observation is a no-op.
	Append(ctx context.Context, obs *scraper.PriceObservation) error

	// MaxObservedPrice returns the maximum current price recorded so
	// far and the timestamp of the record achieving it. ok is false
	// when the store is empty.
	MaxObservedPrice(ctx context.Context) (max int, timestamp string, ok bool, err error)

	// Count returns the number of stored observations
	Count(ctx context.Context) (int, error)

	// Close releases the store handle
	Close() error
}
