// Package ui provides the Bubble Tea TUI for the arbitrage engine.
package ui

import (
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
)

// Message types for TUI updates

// PricesMsg is sent when a fresh price snapshot is taken.
type PricesMsg struct {
	Snapshot *pricingDomain.PriceSnapshot
}

// OpportunitiesMsg is sent after each detection tick with the current
// opportunity table, sorted for display.
type OpportunitiesMsg struct {
	Opportunities []*domain.Opportunity
}

// ExecutionMsg is sent when an execution settles.
type ExecutionMsg struct {
	Opportunity *domain.Opportunity
	Result      *domain.ExecutionResult
}

// StatsMsg carries cumulative session statistics.
type StatsMsg struct {
	Stats app.Stats
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI animations.
type TickMsg struct{}
