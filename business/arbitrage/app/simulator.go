package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
)

// SimulatorConfig holds execution simulation tuning.
type SimulatorConfig struct {
	MinLatency time.Duration // network round-trip floor
	MaxLatency time.Duration
}

// DefaultSimulatorConfig returns the standard latency band.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		MinLatency: 800 * time.Millisecond,
		MaxLatency: 1800 * time.Millisecond,
	}
}

// Simulator produces probabilistic execution outcomes. Given its random
// source it is referentially transparent; the source is injectable so
// tests can pin outcomes.
type Simulator struct {
	config SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSimulator creates a simulator seeded from the clock.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	return NewSimulatorWithRand(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSimulatorWithRand creates a simulator with an explicit random
// source for deterministic tests.
func NewSimulatorWithRand(cfg SimulatorConfig, rng *rand.Rand) *Simulator {
	return &Simulator{
		config: cfg,
		rng:    rng,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Simulate models executing the opportunity with the given investment.
// It suspends for a simulated network round-trip, so callers run it off
// the detection path. The context cancels only the latency sleep; an
// execution that has started always settles with a terminal result.
func (s *Simulator) Simulate(
	ctx context.Context,
	opp *domain.Opportunity,
	investment decimal.Decimal,
	solPrice decimal.Decimal,
) (*domain.ExecutionResult, error) {
	latency := s.config.MinLatency +
		time.Duration(s.randFloat()*float64(s.config.MaxLatency-s.config.MinLatency))
	if err := s.sleep(ctx, latency); err != nil {
		return nil, err
	}

	// The reference trade behind ProfitUSD is 100 base units; scale to
	// the actual investment.
	scaleFactor := investment.Div(referenceTradeUSD)
	expectedProfit := opp.ProfitUSD.Mul(scaleFactor)

	gasCostSOL := opp.GasCostSOL.Mul(decimal.NewFromFloat(0.9 + s.randFloat()*0.2))
	gasCostUSD := gasCostSOL.Mul(solPrice)

	baseProb := 1 - opp.RiskFactor
	if opp.RiskFactor == 0 {
		baseProb = opp.Strategy.DefaultSuccessProbability()
	}

	// Larger trades eat deeper into pool depth.
	sizeAdjustment := 0.0
	if investment.GreaterThan(decimal.NewFromInt(50)) {
		sizeAdjustment = -0.05
	}

	successProbability := clamp01(baseProb + sizeAdjustment + s.randFloat()*0.1)
	success := s.randFloat() < successProbability

	actualProfit := decimal.Zero
	var reason domain.FailureReason
	if success {
		actualProfit = expectedProfit.Mul(decimal.NewFromFloat(0.85 + s.randFloat()*0.3))
	} else {
		reason = domain.FailureReasons[s.randIntn(len(domain.FailureReasons))]
	}

	return &domain.ExecutionResult{
		EventID:             uuid.NewString(),
		OpportunityID:       opp.ID,
		Success:             success,
		FailureReason:       reason,
		Investment:          investment,
		ExpectedProfitUSD:   expectedProfit,
		ActualProfitUSD:     actualProfit,
		GasCostSOL:          gasCostSOL,
		GasCostUSD:          gasCostUSD,
		ProfitAfterCostsUSD: actualProfit.Sub(gasCostUSD),
		ExecutionTimeMs:     200 + int64(s.randIntn(400)),
		CompletedAt:         s.now(),
	}, nil
}

func (s *Simulator) randFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulator) randIntn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
