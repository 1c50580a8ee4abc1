// Package arbitrage implements the arbitrage bounded context: opportunity
// detection, ranking, simulated execution and lifecycle tracking.
package arbitrage

import (
	"context"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	arbDI "github.com/solarb-labs/arbitrage-engine/business/arbitrage/di"
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/infra"
	pricingDI "github.com/solarb-labs/arbitrage-engine/business/pricing/di"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/config"
	"github.com/solarb-labs/arbitrage-engine/internal/di"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.Finder, func(sr di.ServiceRegistry) *app.Finder {
		cfg := sr.Get("config").(*config.Config)

		finderCfg := app.DefaultFinderConfig()
		finderCfg.ReferenceVenue = pricingDomain.Venue(cfg.Feed.ReferenceVenue)
		if cfg.Arbitrage.QuadSamplesPerCycle > 0 {
			finderCfg.QuadSamples = cfg.Arbitrage.QuadSamplesPerCycle
		}
		return app.NewFinder(finderCfg)
	})

	di.RegisterToken(c, arbDI.Manager, func(sr di.ServiceRegistry) *app.Manager {
		cfg := sr.Get("config").(*config.Config)
		return app.NewManager(cfg.Arbitrage.HistorySize)
	})

	di.RegisterToken(c, arbDI.Simulator, func(sr di.ServiceRegistry) *app.Simulator {
		return app.NewSimulator(app.DefaultSimulatorConfig())
	})

	di.RegisterToken(c, arbDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Arbitrage.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		engineCfg := app.DefaultEngineConfig()
		engineCfg.Strategies = app.Strategies{
			Direct:        cfg.Arbitrage.Strategies.Direct,
			Triangular:    cfg.Arbitrage.Strategies.Triangular,
			Quadrilateral: cfg.Arbitrage.Strategies.Quadrilateral,
		}
		engineCfg.Tier = app.ParseTier(cfg.Arbitrage.Intelligence)
		engineCfg.Investment = cfg.Arbitrage.InvestmentAmountDecimal()
		engineCfg.MaxPerTrade = cfg.Arbitrage.MaxPerTradeDecimal()
		engineCfg.DetectInterval = cfg.Arbitrage.DetectInterval
		engineCfg.ExecuteInterval = cfg.Arbitrage.ExecuteInterval
		engineCfg.AutoRun = cfg.Arbitrage.AutoRun
		engineCfg.MaxTradesPerMinute = cfg.Arbitrage.MaxTradesPerMinute
		engineCfg.ReferenceVenue = pricingDomain.Venue(cfg.Feed.ReferenceVenue)

		return app.NewEngine(
			pricingDI.GetPricingService(sr),
			arbDI.GetFinder(sr),
			arbDI.GetManager(sr),
			arbDI.GetSimulator(sr),
			arbDI.GetReporter(sr),
			engineCfg,
			log,
		)
	})

	return nil
}

// Startup starts the engine loops.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	engine := arbDI.GetEngine(mono.Services())
	if err := engine.Start(ctx); err != nil {
		return err
	}

	log.Info(ctx, "arbitrage module started",
		"intelligence", cfg.Arbitrage.Intelligence,
		"auto_run", cfg.Arbitrage.AutoRun,
		"detect_interval", cfg.Arbitrage.DetectInterval.String(),
		"execute_interval", cfg.Arbitrage.ExecuteInterval.String(),
	)
	return nil
}
