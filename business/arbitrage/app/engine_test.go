package app

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingApp "github.com/solarb-labs/arbitrage-engine/business/pricing/app"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// staticFeed serves the same snapshot on every call.
type staticFeed struct {
	prices map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal
}

func (f *staticFeed) Snapshot(ctx context.Context) (*pricingDomain.PriceSnapshot, error) {
	return pricingDomain.NewPriceSnapshot(f.prices, time.Now())
}

func (f *staticFeed) Name() string { return "static" }

// captureReporter records engine callbacks.
type captureReporter struct {
	mu         sync.Mutex
	oppBatches int
	executions []*domain.ExecutionResult
	prices     int
	stats      Stats
}

func (r *captureReporter) Start(ctx context.Context) error { return nil }
func (r *captureReporter) Stop() error                     { return nil }

func (r *captureReporter) ReportOpportunities(opps []*domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oppBatches++
}

func (r *captureReporter) ReportExecution(opp *domain.Opportunity, result *domain.ExecutionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions = append(r.executions, result)
}

func (r *captureReporter) UpdatePrices(snap *pricingDomain.PriceSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices++
}

func (r *captureReporter) UpdateStats(stats Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = stats
}

func (r *captureReporter) executionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.executions)
}

// arbFeed has a cross-venue inconsistency the triangular scan hits on
// every tick.
func arbFeed() *staticFeed {
	return &staticFeed{prices: map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueRaydium: decimal.RequireFromString("1.00"),
			pricingDomain.VenueOrca:    decimal.RequireFromString("1.00"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: decimal.RequireFromString("100"),
			pricingDomain.VenueOrca:    decimal.RequireFromString("101"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueRaydium: decimal.RequireFromString("2"),
			pricingDomain.VenueOrca:    decimal.RequireFromString("1.9"),
		},
	}}
}

func testEngine(reporter Reporter, autoRun bool) *Engine {
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	pricing := pricingApp.NewPricingService(arbFeed(), pricingApp.DefaultServiceConfig(), log)

	cfg := DefaultEngineConfig()
	cfg.Strategies = Strategies{Triangular: true}
	cfg.DetectInterval = 20 * time.Millisecond
	cfg.ExecuteInterval = 10 * time.Millisecond
	cfg.AutoRun = autoRun
	cfg.MaxTradesPerMinute = 600

	simCfg := SimulatorConfig{MinLatency: time.Millisecond, MaxLatency: 2 * time.Millisecond}
	return NewEngine(
		pricing,
		NewFinderWithRand(DefaultFinderConfig(), rand.New(rand.NewSource(1))),
		NewManager(100),
		NewSimulatorWithRand(simCfg, rand.New(rand.NewSource(1))),
		reporter,
		cfg,
		log,
	)
}

func TestEngine_AutoRunExecutesAndSettles(t *testing.T) {
	reporter := &captureReporter{}
	engine := testEngine(reporter, true)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for reporter.executionCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("no execution settled within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// Everything claimed must have settled by the time Stop returns.
	for _, opp := range engine.Opportunities() {
		if opp.Status == domain.StatusExecuting {
			t.Errorf("opportunity %s still executing after Stop", opp.ID)
		}
	}

	stats := engine.Stats()
	if stats.Executions == 0 {
		t.Error("stats recorded no executions")
	}
	if stats.DetectionTicks == 0 {
		t.Error("stats recorded no detection ticks")
	}
	if stats.Executions != stats.Successes+stats.Failures {
		t.Errorf("executions %d != successes %d + failures %d",
			stats.Executions, stats.Successes, stats.Failures)
	}
	if len(engine.History()) == 0 {
		t.Error("no settled opportunities in history")
	}
}

func TestEngine_NoAutoRunNoExecutions(t *testing.T) {
	reporter := &captureReporter{}
	engine := testEngine(reporter, false)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if got := reporter.executionCount(); got != 0 {
		t.Errorf("%d executions with auto-run disabled", got)
	}
	if stats := engine.Stats(); stats.DetectionTicks == 0 {
		t.Error("detection should run regardless of auto-run")
	}
}

func TestEngine_ManualExecute(t *testing.T) {
	reporter := &captureReporter{}
	engine := testEngine(reporter, false)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Wait for the first detection tick to populate the table.
	var id string
	deadline := time.After(3 * time.Second)
	for id == "" {
		if opps := engine.Opportunities(); len(opps) > 0 {
			id = opps[0].ID
			break
		}
		select {
		case <-deadline:
			t.Fatal("table never populated")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := engine.Execute(context.Background(), id); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if got := reporter.executionCount(); got != 1 {
		t.Errorf("executions = %d, want 1", got)
	}
}

func TestEngine_StartTwiceRejected(t *testing.T) {
	engine := testEngine(&captureReporter{}, false)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer engine.Stop()

	if err := engine.Start(context.Background()); err == nil {
		t.Fatal("second start should fail")
	}
}

func TestEngine_SetAutoRun(t *testing.T) {
	engine := testEngine(&captureReporter{}, false)

	if engine.AutoRun() {
		t.Error("auto-run should start disabled")
	}
	engine.SetAutoRun(true)
	if !engine.AutoRun() {
		t.Error("auto-run should be enabled")
	}
}
