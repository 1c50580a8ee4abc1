package infra

import (
	"context"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/pkg/ui"
)

// TUIReporter implements Reporter by forwarding engine output to the
// Bubble Tea program as messages. Program.Send is safe from any
// goroutine and never blocks, which keeps the engine's non-blocking
// contract.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter. The Bubble Tea program
// itself is owned by main; the reporter only sends to it.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// ReportOpportunities forwards the current opportunity table.
func (r *TUIReporter) ReportOpportunities(opps []*domain.Opportunity) {
	ui.Send(ui.OpportunitiesMsg{Opportunities: opps})
}

// ReportExecution forwards a settled execution outcome.
func (r *TUIReporter) ReportExecution(opp *domain.Opportunity, result *domain.ExecutionResult) {
	ui.Send(ui.ExecutionMsg{Opportunity: opp, Result: result})
}

// UpdatePrices forwards the latest price snapshot.
func (r *TUIReporter) UpdatePrices(snap *pricingDomain.PriceSnapshot) {
	ui.Send(ui.PricesMsg{Snapshot: snap})
}

// UpdateStats forwards cumulative session statistics.
func (r *TUIReporter) UpdateStats(stats app.Stats) {
	ui.Send(ui.StatsMsg{Stats: stats})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
