package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingApp "github.com/solarb-labs/arbitrage-engine/business/pricing/app"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/apm"
	"github.com/solarb-labs/arbitrage-engine/internal/apperror"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/ratelimit"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

const (
	engineTracerName = "github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	engineMeterName  = "github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
)

// EngineConfig holds the two-cadence loop configuration.
type EngineConfig struct {
	Strategies         Strategies
	Tier               IntelligenceTier
	Investment         decimal.Decimal
	MaxPerTrade        decimal.Decimal
	DetectInterval     time.Duration
	ExecuteInterval    time.Duration
	AutoRun            bool
	MaxTradesPerMinute int
	ReferenceVenue     pricingDomain.Venue
}

// DefaultEngineConfig returns the standard cadences.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Strategies:         Strategies{Direct: true, Triangular: true, Quadrilateral: true},
		Tier:               TierMedium,
		Investment:         decimal.NewFromInt(100),
		MaxPerTrade:        decimal.NewFromInt(50),
		DetectInterval:     10 * time.Second,
		ExecuteInterval:    2 * time.Second,
		MaxTradesPerMinute: 10,
		ReferenceVenue:     pricingDomain.VenueRaydium,
	}
}

// engineMetrics holds OTEL metric instruments.
type engineMetrics struct {
	opportunitiesFound metric.Int64Counter
	executions         metric.Int64Counter
	detectDuration     metric.Float64Histogram
	executionLatency   metric.Float64Histogram
}

// Engine runs detection and auto-execution on two independent cadences
// against the shared opportunity table. Executions run in their own
// goroutines so simulated network latency never blocks a detection tick.
type Engine struct {
	pricing   *pricingApp.PricingService
	finder    *Finder
	manager   *Manager
	simulator *Simulator
	reporter  Reporter
	limiter   *ratelimit.Limiter
	config    EngineConfig
	logger    logger.LoggerInterface

	tracer  apm.Tracer
	metrics engineMetrics
	stats   *statsTracker

	autoRun atomic.Bool
	running atomic.Bool

	snapMu   sync.RWMutex
	lastSnap *pricingDomain.PriceSnapshot

	cancel   context.CancelFunc
	loops    sync.WaitGroup // ticker goroutines
	inFlight sync.WaitGroup // executions allowed to settle on stop
}

// NewEngine wires the engine from its collaborators.
func NewEngine(
	pricing *pricingApp.PricingService,
	finder *Finder,
	manager *Manager,
	simulator *Simulator,
	reporter Reporter,
	config EngineConfig,
	log logger.LoggerInterface,
) *Engine {
	e := &Engine{
		pricing:   pricing,
		finder:    finder,
		manager:   manager,
		simulator: simulator,
		reporter:  reporter,
		limiter:   ratelimit.New(config.MaxTradesPerMinute),
		config:    config,
		logger:    log,
		tracer:    apm.NewTracer(engineTracerName),
		stats:     newStatsTracker(),
	}
	e.autoRun.Store(config.AutoRun)

	meter := otel.Meter(engineMeterName)
	e.metrics.opportunitiesFound, _ = meter.Int64Counter("arbitrage_opportunities_found_total",
		metric.WithDescription("Opportunities emitted by the finder, by strategy"))
	e.metrics.executions, _ = meter.Int64Counter("arbitrage_executions_total",
		metric.WithDescription("Execution attempts, by outcome"))
	e.metrics.detectDuration, _ = meter.Float64Histogram("arbitrage_detect_duration_seconds",
		metric.WithDescription("Detection tick duration"))
	e.metrics.executionLatency, _ = meter.Float64Histogram("arbitrage_execution_latency_seconds",
		metric.WithDescription("Simulated execution round-trip latency"))

	return e
}

// Start launches the detection and execution loops. The first detection
// tick runs immediately.
func (e *Engine) Start(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return apperror.New(apperror.CodeInvalidState, apperror.WithMessage("engine already running"))
	}

	if err := e.reporter.Start(ctx); err != nil {
		e.running.Store(false)
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.loops.Add(2)
	go e.detectLoop(loopCtx)
	go e.executeLoop(loopCtx)

	e.logger.Info(ctx, "engine started",
		"detect_interval", e.config.DetectInterval.String(),
		"execute_interval", e.config.ExecuteInterval.String(),
		"auto_run", e.autoRun.Load())
	return nil
}

// Stop halts the tickers and waits for in-flight executions to settle;
// trades are never aborted mid-flight.
func (e *Engine) Stop() error {
	if !e.running.CompareAndSwap(true, false) {
		return nil
	}

	e.cancel()
	e.loops.Wait()
	e.inFlight.Wait()

	e.logger.Info(context.Background(), "engine stopped")
	return e.reporter.Stop()
}

// Running reports whether the loops are active, for health checks.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// SetAutoRun toggles autonomous execution.
func (e *Engine) SetAutoRun(on bool) {
	e.autoRun.Store(on)
	e.reporter.UpdateStats(e.stats.snapshot(on))
}

// AutoRun reports whether autonomous execution is enabled.
func (e *Engine) AutoRun() bool {
	return e.autoRun.Load()
}

// Opportunities returns the current table sorted for display.
func (e *Engine) Opportunities() []*domain.Opportunity {
	return SortByProfit(e.manager.All())
}

// History returns settled opportunities, oldest first.
func (e *Engine) History() []*domain.Opportunity {
	return e.manager.History()
}

// Stats returns cumulative session statistics.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot(e.autoRun.Load())
}

func (e *Engine) detectLoop(ctx context.Context) {
	defer e.loops.Done()

	ticker := time.NewTicker(e.config.DetectInterval)
	defer ticker.Stop()

	e.detectTick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.detectTick(ctx)
		}
	}
}

func (e *Engine) executeLoop(ctx context.Context) {
	defer e.loops.Done()

	ticker := time.NewTicker(e.config.ExecuteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.executeTick(ctx)
		}
	}
}

// detectTick refreshes the table from a fresh snapshot.
func (e *Engine) detectTick(ctx context.Context) {
	ctx, span := e.tracer.StartSpanFromContext(ctx, "engine.detect")
	defer span.End()
	started := time.Now()

	snap, err := e.pricing.Snapshot(ctx)
	if err != nil {
		e.logger.Warn(ctx, "detection skipped, no snapshot", "error", err)
		span.RecordError(err)
		return
	}

	e.snapMu.Lock()
	e.lastSnap = snap
	e.snapMu.Unlock()

	found := e.finder.Find(snap, e.config.Strategies)
	e.manager.Refresh(found)

	for _, opp := range found {
		e.metrics.opportunitiesFound.Add(ctx, 1,
			metric.WithAttributes(attribute.String("strategy", string(opp.Strategy))))
	}
	e.metrics.detectDuration.Record(ctx, time.Since(started).Seconds())
	e.stats.recordDetection(len(found))

	e.reporter.UpdatePrices(snap)
	e.reporter.ReportOpportunities(SortByProfit(e.manager.All()))
	e.reporter.UpdateStats(e.stats.snapshot(e.autoRun.Load()))

	e.logger.Debug(ctx, "detection tick", "found", len(found))
}

// executeTick selects and launches at most one execution.
func (e *Engine) executeTick(ctx context.Context) {
	if !e.autoRun.Load() {
		return
	}

	perTrade := e.perTradeAmount()
	if !perTrade.IsPositive() {
		return
	}

	id, ok := Select(e.manager.Ready(), e.config.Tier)
	if !ok {
		return
	}

	if !e.limiter.Allow() {
		e.logger.Debug(ctx, "trade pace cap hit, skipping tick", "id", id)
		return
	}

	e.launchExecution(ctx, id, perTrade)
}

// Execute triggers a manual execution of a specific opportunity, for
// interactive callers. It obeys the same pace cap as auto-run.
func (e *Engine) Execute(ctx context.Context, id string) error {
	perTrade := e.perTradeAmount()
	if !perTrade.IsPositive() {
		return apperror.New(apperror.CodeInvalidInvestment,
			apperror.WithMessage("per-trade amount is zero"))
	}
	if !e.limiter.Allow() {
		return apperror.New(apperror.CodeExecutionRateLimited, apperror.WithContext(id))
	}
	e.launchExecution(ctx, id, perTrade)
	return nil
}

// launchExecution claims the opportunity and runs the simulator in its
// own goroutine. The simulation deliberately detaches from the loop
// context so stopping the engine lets it settle.
func (e *Engine) launchExecution(ctx context.Context, id string, amount decimal.Decimal) {
	opp, err := e.manager.BeginExecution(id, amount)
	if err != nil {
		// Lost the race to another tick or the table refreshed under us.
		e.logger.Debug(ctx, "execution claim rejected", "id", id, "error", err)
		return
	}

	solPrice, ok := e.referenceSOLPrice()
	if !ok {
		e.logger.Warn(ctx, "no reference SOL price, settling as failed", "id", id)
		solPrice = decimal.Zero
	}

	e.inFlight.Add(1)
	go func() {
		defer e.inFlight.Done()
		e.runExecution(opp, amount, solPrice)
	}()
}

func (e *Engine) runExecution(opp *domain.Opportunity, amount, solPrice decimal.Decimal) {
	ctx, span := e.tracer.StartSpanFromContext(context.Background(), "engine.execute",
		trace.WithAttributes(
			attribute.String("opportunity_id", opp.ID),
			attribute.String("strategy", string(opp.Strategy)),
		))
	defer span.End()
	started := time.Now()

	result, err := e.simulator.Simulate(ctx, opp, amount, solPrice)
	if err != nil {
		span.RecordError(err)
		e.logger.Error(ctx, "simulation aborted", "id", opp.ID, "error", err)
		return
	}

	settled, err := e.manager.CompleteExecution(opp.ID, result)
	if err != nil {
		span.RecordError(err)
		e.logger.Error(ctx, "settlement rejected", "id", opp.ID, "error", err)
		return
	}

	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	e.metrics.executions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
	e.metrics.executionLatency.Record(ctx, time.Since(started).Seconds())
	e.stats.recordExecution(result)

	e.reporter.ReportExecution(settled, result)
	e.reporter.ReportOpportunities(SortByProfit(e.manager.All()))
	e.reporter.UpdateStats(e.stats.snapshot(e.autoRun.Load()))

	e.logger.Info(ctx, "execution settled",
		"id", opp.ID,
		"route", settled.Route(),
		"outcome", outcome,
		"profit_after_costs", result.ProfitAfterCostsUSD.StringFixed(2),
		"latency_ms", result.ExecutionTimeMs)
}

// perTradeAmount is min(maxPerTrade, investment).
func (e *Engine) perTradeAmount() decimal.Decimal {
	if e.config.MaxPerTrade.LessThan(e.config.Investment) {
		return e.config.MaxPerTrade
	}
	return e.config.Investment
}

func (e *Engine) referenceSOLPrice() (decimal.Decimal, bool) {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	if e.lastSnap == nil {
		return decimal.Decimal{}, false
	}
	return e.lastSnap.Price(token.SymbolSOL, e.config.ReferenceVenue)
}
