package app

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/apm"
	"github.com/solarb-labs/arbitrage-engine/internal/apperror"
	"github.com/solarb-labs/arbitrage-engine/internal/circuitbreaker"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
)

const (
	tracerName = "github.com/solarb-labs/arbitrage-engine/business/pricing/app"
	meterName  = "github.com/solarb-labs/arbitrage-engine/business/pricing/app"
)

// ServiceConfig holds PricingService tuning.
type ServiceConfig struct {
	StaleTimeout time.Duration // age beyond which the cached snapshot is unusable
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		StaleTimeout: 30 * time.Second,
	}
}

// PricingService fronts a QuoteSource with a circuit breaker and a
// last-known-good cache. Repeated feed failures open the circuit;
// while it is open, callers get the cached snapshot as long as it is
// fresh enough.
type PricingService struct {
	source  QuoteSource
	breaker *circuitbreaker.Breaker[*domain.PriceSnapshot]
	config  ServiceConfig
	logger  logger.LoggerInterface

	mu   sync.RWMutex
	last *domain.PriceSnapshot

	tracer     apm.Tracer
	feedErrors metric.Int64Counter
}

// NewPricingService creates a service around the given feed.
func NewPricingService(source QuoteSource, cfg ServiceConfig, log logger.LoggerInterface) *PricingService {
	s := &PricingService{
		source: source,
		config: cfg,
		logger: log,
		tracer: apm.NewTracer(tracerName),
	}

	bcfg := circuitbreaker.DefaultConfig("feed-" + source.Name())
	bcfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "feed circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	s.breaker = circuitbreaker.New[*domain.PriceSnapshot](bcfg)

	meter := otel.Meter(meterName)
	s.feedErrors, _ = meter.Int64Counter("pricing_feed_errors_total",
		metric.WithDescription("Quote source failures"))

	return s
}

// Snapshot returns current prices, falling back to the cached snapshot
// when the feed fails or the circuit is open. Returns CodeCircuitOpen
// when the circuit rejected the call and no fresh cache exists, and
// CodeFeedUnavailable for ordinary feed failures with no fallback.
func (s *PricingService) Snapshot(ctx context.Context) (*domain.PriceSnapshot, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "pricing.snapshot",
		trace.WithAttributes(attribute.String("feed", s.source.Name())))
	defer span.End()

	snap, err := s.breaker.Execute(func() (*domain.PriceSnapshot, error) {
		return s.source.Snapshot(ctx)
	})
	if err == nil {
		s.mu.Lock()
		s.last = snap
		s.mu.Unlock()
		return snap, nil
	}

	s.feedErrors.Add(ctx, 1)
	span.RecordError(err)

	if cached := s.cachedFresh(); cached != nil {
		s.logger.Warn(ctx, "feed failed, serving cached snapshot",
			"error", err, "age", cached.Age().String())
		return cached, nil
	}

	if circuitbreaker.IsOpen(err) {
		return nil, apperror.New(apperror.CodeCircuitOpen, apperror.WithCause(err))
	}
	return nil, apperror.New(apperror.CodeFeedUnavailable, apperror.WithCause(err))
}

// cachedFresh returns the cached snapshot if it is within the stale window.
func (s *PricingService) cachedFresh() *domain.PriceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil || s.last.Age() > s.config.StaleTimeout {
		return nil
	}
	return s.last
}

// Healthy reports feed freshness for the health endpoint.
func (s *PricingService) Healthy(ctx context.Context) (bool, string) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return false, "no snapshot yet"
	}
	if last.Age() > s.config.StaleTimeout {
		return false, "snapshot stale: " + last.Age().Round(time.Second).String()
	}
	return true, ""
}
