// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// StrategyType classifies a cyclic trading path by hop count.
type StrategyType string

const (
	StrategyDirect        StrategyType = "direct"        // 2 hops, one token across two venues
	StrategyTriangular    StrategyType = "triangular"    // 3-hop cycle through two mids
	StrategyQuadrilateral StrategyType = "quadrilateral" // 4-hop cycle through three mids
)

// Hops returns the path length for the strategy.
func (s StrategyType) Hops() int {
	switch s {
	case StrategyDirect:
		return 2
	case StrategyTriangular:
		return 3
	case StrategyQuadrilateral:
		return 4
	default:
		return 0
	}
}

// DefaultSuccessProbability is the base execution success probability
// used when an opportunity carries no risk factor.
func (s StrategyType) DefaultSuccessProbability() float64 {
	switch s {
	case StrategyDirect:
		return 0.95
	case StrategyTriangular:
		return 0.85
	default:
		return 0.75
	}
}

// Status is the lifecycle state of an opportunity.
type Status string

const (
	StatusReady     Status = "ready"
	StatusExecuting Status = "executing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Settled reports whether the status is terminal.
func (s Status) Settled() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Step is one hop of a trade path: convert FromToken to ToToken on Venue.
type Step struct {
	Venue     pricingDomain.Venue
	FromToken token.Symbol
	ToToken   token.Symbol
	Rate      decimal.Decimal // units of ToToken received per unit of FromToken
}

// Opportunity is a detected cyclic trading path. Instances are created by
// the finder with StatusReady and mutated only by the lifecycle manager.
type Opportunity struct {
	ID       string
	Strategy StrategyType
	Path     []Step

	// Profitability for a 100-unit base-token reference trade.
	ProfitPct  decimal.Decimal
	ProfitUSD  decimal.Decimal
	GasCostSOL decimal.Decimal // flat network fee estimate, in SOL
	GasCostUSD decimal.Decimal
	RiskFactor float64 // in [0,1], grows with path length

	Status       Status
	DiscoveredAt time.Time

	// Populated as the opportunity moves through its lifecycle.
	InvestmentAmount decimal.Decimal
	ExecutionTimeMs  int64
	FailureReason    FailureReason
	SettledAt        time.Time
}

// BaseToken returns the token the cycle starts and ends in.
func (o *Opportunity) BaseToken() token.Symbol {
	if len(o.Path) == 0 {
		return ""
	}
	return o.Path[0].FromToken
}

// ClosesCycle reports whether the path returns to its base token.
func (o *Opportunity) ClosesCycle() bool {
	if len(o.Path) == 0 {
		return false
	}
	return o.Path[0].FromToken == o.Path[len(o.Path)-1].ToToken
}

// Route renders the path for display: "SOL (Orca → Meteora)" for direct
// opportunities, "USDC → SOL → JUP → USDC" for longer cycles.
func (o *Opportunity) Route() string {
	if len(o.Path) == 0 {
		return ""
	}

	if o.Strategy == StrategyDirect && len(o.Path) == 2 {
		return string(o.Path[0].ToToken) +
			" (" + string(o.Path[0].Venue) + " → " + string(o.Path[1].Venue) + ")"
	}

	var b strings.Builder
	b.WriteString(string(o.Path[0].FromToken))
	for _, step := range o.Path {
		b.WriteString(" → ")
		b.WriteString(string(step.ToToken))
	}
	return b.String()
}

// Clone returns a deep copy. The manager hands copies to callers so
// table entries are never aliased outside the lock.
func (o *Opportunity) Clone() *Opportunity {
	c := *o
	c.Path = make([]Step, len(o.Path))
	copy(c.Path, o.Path)
	return &c
}
