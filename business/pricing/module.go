// Package pricing implements the pricing bounded context: venue quote
// snapshots served to the rest of the engine.
package pricing

import (
	"context"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/app"
	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	pricingDI "github.com/solarb-labs/arbitrage-engine/business/pricing/di"
	"github.com/solarb-labs/arbitrage-engine/business/pricing/infra/mockfeed"
	"github.com/solarb-labs/arbitrage-engine/internal/config"
	"github.com/solarb-labs/arbitrage-engine/internal/di"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register QuoteSource (mock feed) - private dependency
	di.RegisterToken(c, pricingDI.QuoteSource, func(sr di.ServiceRegistry) app.QuoteSource {
		cfg := sr.Get("config").(*config.Config)

		feedCfg := mockfeed.Config{
			Venues:    toVenues(cfg.Feed.Venues),
			JitterPct: cfg.Feed.JitterPct,
		}
		return mockfeed.New(feedCfg)
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		source := pricingDI.GetQuoteSource(sr)

		svcCfg := app.DefaultServiceConfig()
		if cfg.Feed.StaleTimeout > 0 {
			svcCfg.StaleTimeout = cfg.Feed.StaleTimeout
		}
		return app.NewPricingService(source, svcCfg, log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetPricingService(mono.Services())

	// Prime the cache so the first detection tick has quotes.
	if _, err := svc.Snapshot(ctx); err != nil {
		log.Warn(ctx, "initial snapshot failed, engine will retry on its cadence", "error", err)
	}

	log.Info(ctx, "pricing module started", "feed", pricingDI.GetQuoteSource(mono.Services()).Name())
	return nil
}

func toVenues(names []string) []domain.Venue {
	venues := make([]domain.Venue, 0, len(names))
	for _, n := range names {
		venues = append(venues, domain.Venue(n))
	}
	return venues
}
