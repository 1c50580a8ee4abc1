package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/apperror"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

type stubSource struct {
	snap  *domain.PriceSnapshot
	err   error
	calls int
}

func (s *stubSource) Snapshot(ctx context.Context) (*domain.PriceSnapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *stubSource) Name() string { return "stub" }

func testSnapshot(t *testing.T, taken time.Time) *domain.PriceSnapshot {
	t.Helper()
	snap, err := domain.NewPriceSnapshot(map[token.Symbol]map[domain.Venue]decimal.Decimal{
		token.SymbolSOL: {domain.VenueRaydium: decimal.RequireFromString("144.55")},
	}, taken)
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelInfo, "test", nil)
}

func TestPricingService_SnapshotPassthrough(t *testing.T) {
	src := &stubSource{snap: testSnapshot(t, time.Now())}
	svc := NewPricingService(src, DefaultServiceConfig(), testLogger())

	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != src.snap {
		t.Error("expected the source snapshot to pass through")
	}
}

func TestPricingService_ServesCacheOnFailure(t *testing.T) {
	src := &stubSource{snap: testSnapshot(t, time.Now())}
	svc := NewPricingService(src, DefaultServiceConfig(), testLogger())

	first, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = errors.New("feed down")
	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("expected cached fallback, got error: %v", err)
	}
	if got != first {
		t.Error("expected the cached snapshot")
	}
}

func TestPricingService_FeedUnavailableWithoutCache(t *testing.T) {
	src := &stubSource{err: errors.New("feed down")}
	svc := NewPricingService(src, DefaultServiceConfig(), testLogger())

	_, err := svc.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperror.HasCode(err, apperror.CodeFeedUnavailable) {
		t.Errorf("error code = %v, want CodeFeedUnavailable", apperror.GetCode(err))
	}
}

func TestPricingService_StaleCacheNotServed(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.StaleTimeout = 10 * time.Millisecond

	src := &stubSource{snap: testSnapshot(t, time.Now().Add(-time.Minute))}
	svc := NewPricingService(src, cfg, testLogger())

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = errors.New("feed down")
	if _, err := svc.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error once cache is stale")
	}
}

func TestPricingService_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	src := &stubSource{err: errors.New("feed down")}
	svc := NewPricingService(src, DefaultServiceConfig(), testLogger())

	for i := 0; i < 10; i++ {
		svc.Snapshot(context.Background())
	}

	// Once open, the breaker rejects calls without hitting the source.
	callsBefore := src.calls
	_, err := svc.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperror.HasCode(err, apperror.CodeCircuitOpen) {
		t.Errorf("error code = %v, want CodeCircuitOpen", apperror.GetCode(err))
	}
	if src.calls != callsBefore {
		t.Errorf("source called %d more times while circuit open", src.calls-callsBefore)
	}
}

func TestPricingService_Healthy(t *testing.T) {
	src := &stubSource{snap: testSnapshot(t, time.Now())}
	svc := NewPricingService(src, DefaultServiceConfig(), testLogger())

	if ok, msg := svc.Healthy(context.Background()); ok {
		t.Errorf("expected unhealthy before first snapshot, got ok (%s)", msg)
	}

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok, msg := svc.Healthy(context.Background()); !ok {
		t.Errorf("expected healthy, got %s", msg)
	}
}
