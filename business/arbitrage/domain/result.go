package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FailureReason is a business outcome of a failed execution, never a
// system error. The set is closed.
type FailureReason string

const (
	FailurePriceMoved            FailureReason = "PRICE_MOVED"
	FailureInsufficientLiquidity FailureReason = "INSUFFICIENT_LIQUIDITY"
	FailureSlippageExceeded      FailureReason = "SLIPPAGE_EXCEEDED"
	FailureNetworkTimeout        FailureReason = "NETWORK_TIMEOUT"
	FailureRateLimited           FailureReason = "RATE_LIMITED"
	FailurePoolImbalance         FailureReason = "POOL_IMBALANCE"
)

// FailureReasons lists the closed taxonomy in a fixed order, so the
// simulator can draw uniformly from it.
var FailureReasons = []FailureReason{
	FailurePriceMoved,
	FailureInsufficientLiquidity,
	FailureSlippageExceeded,
	FailureNetworkTimeout,
	FailureRateLimited,
	FailurePoolImbalance,
}

// Description returns the operator-facing message for the reason.
func (r FailureReason) Description() string {
	switch r {
	case FailurePriceMoved:
		return "Price moved before execution completed"
	case FailureInsufficientLiquidity:
		return "Insufficient liquidity in target pool"
	case FailureSlippageExceeded:
		return "Order execution exceeded slippage tolerance"
	case FailureNetworkTimeout:
		return "Network congestion caused transaction timeout"
	case FailureRateLimited:
		return "Rate limiting on DEX API"
	case FailurePoolImbalance:
		return "Temporary pool imbalance"
	default:
		return string(r)
	}
}

// ExecutionResult is the immutable outcome of one execution attempt.
type ExecutionResult struct {
	EventID       string // unique per attempt
	OpportunityID string

	Success       bool
	FailureReason FailureReason // empty on success

	Investment          decimal.Decimal
	ExpectedProfitUSD   decimal.Decimal
	ActualProfitUSD     decimal.Decimal // zero on failure, before costs
	GasCostSOL          decimal.Decimal
	GasCostUSD          decimal.Decimal
	ProfitAfterCostsUSD decimal.Decimal // actual profit minus gas, may be negative

	ExecutionTimeMs int64
	CompletedAt     time.Time
}
