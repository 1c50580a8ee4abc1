package app

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
)

// Stats is a point-in-time copy of cumulative session statistics.
type Stats struct {
	DetectionTicks     int
	OpportunitiesFound int
	Executions         int
	Successes          int
	Failures           int
	RealizedProfitUSD  decimal.Decimal
	FailuresByReason   map[domain.FailureReason]int
	AutoRun            bool
}

// SuccessRate returns successes over executions, 0 when none ran.
func (s Stats) SuccessRate() float64 {
	if s.Executions == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Executions)
}

// statsTracker accumulates session statistics under its own lock.
type statsTracker struct {
	mu    sync.Mutex
	stats Stats
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		stats: Stats{
			RealizedProfitUSD: decimal.Zero,
			FailuresByReason:  make(map[domain.FailureReason]int),
		},
	}
}

func (t *statsTracker) recordDetection(found int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.DetectionTicks++
	t.stats.OpportunitiesFound += found
}

func (t *statsTracker) recordExecution(result *domain.ExecutionResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Executions++
	if result.Success {
		t.stats.Successes++
	} else {
		t.stats.Failures++
		t.stats.FailuresByReason[result.FailureReason]++
	}
	t.stats.RealizedProfitUSD = t.stats.RealizedProfitUSD.Add(result.ProfitAfterCostsUSD)
}

func (t *statsTracker) snapshot(autoRun bool) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.stats
	out.AutoRun = autoRun
	out.FailuresByReason = make(map[domain.FailureReason]int, len(t.stats.FailuresByReason))
	for k, v := range t.stats.FailuresByReason {
		out.FailuresByReason[k] = v
	}
	return out
}
