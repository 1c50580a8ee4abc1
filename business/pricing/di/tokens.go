// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/solarb-labs/arbitrage-engine/business/pricing/app"
	"github.com/solarb-labs/arbitrage-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	QuoteSource = di.NewToken[app.QuoteSource]("pricing:quoteSource")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetQuoteSource(c di.ServiceRegistry) app.QuoteSource {
	return di.GetToken(c, QuoteSource)
}
