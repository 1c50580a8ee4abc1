// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	"github.com/solarb-labs/arbitrage-engine/internal/di"
)

// Public tokens - services exposed to other modules.
var (
	// Engine is the arbitrage engine driving detection and execution.
	Engine = di.NewToken[*app.Engine]("arbitrage.Engine")
)

// Private tokens - internal to the arbitrage module.
var (
	Finder    = di.NewToken[*app.Finder]("arbitrage:finder")
	Manager   = di.NewToken[*app.Manager]("arbitrage:manager")
	Simulator = di.NewToken[*app.Simulator]("arbitrage:simulator")
	Reporter  = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// GetEngine retrieves the arbitrage engine from the registry.
func GetEngine(sr di.ServiceRegistry) *app.Engine {
	return di.GetToken(sr, Engine)
}

// GetFinder retrieves the opportunity finder from the registry.
func GetFinder(sr di.ServiceRegistry) *app.Finder {
	return di.GetToken(sr, Finder)
}

// GetManager retrieves the lifecycle manager from the registry.
func GetManager(sr di.ServiceRegistry) *app.Manager {
	return di.GetToken(sr, Manager)
}

// GetSimulator retrieves the execution simulator from the registry.
func GetSimulator(sr di.ServiceRegistry) *app.Simulator {
	return di.GetToken(sr, Simulator)
}

// GetReporter retrieves the configured reporter from the registry.
func GetReporter(sr di.ServiceRegistry) app.Reporter {
	return di.GetToken(sr, Reporter)
}
