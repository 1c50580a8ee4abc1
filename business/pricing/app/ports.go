// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
)

// QuoteSource is the port for price feeds. Implementations return a
// validated snapshot of current venue quotes.
type QuoteSource interface {
	// Snapshot captures current prices across all quoted tokens and venues.
	Snapshot(ctx context.Context) (*domain.PriceSnapshot, error)

	// Name identifies the feed for logs and health checks.
	Name() string
}
