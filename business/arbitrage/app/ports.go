package app

import (
	"context"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
)

// Reporter consumes engine output for display or logging. The engine
// calls it from its tick goroutines; implementations must not block.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportOpportunities delivers the current opportunity list, sorted
	// for display.
	ReportOpportunities(opps []*domain.Opportunity)

	// ReportExecution delivers a settled execution outcome.
	ReportExecution(opp *domain.Opportunity, result *domain.ExecutionResult)

	// UpdatePrices delivers the latest price snapshot.
	UpdatePrices(snap *pricingDomain.PriceSnapshot)

	// UpdateStats delivers cumulative session statistics.
	UpdateStats(stats Stats)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
