package app

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(t *testing.T, prices map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal) *pricingDomain.PriceSnapshot {
	t.Helper()
	snap, err := pricingDomain.NewPriceSnapshot(prices, time.Now())
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

func testFinder(cfg FinderConfig) *Finder {
	return NewFinderWithRand(cfg, rand.New(rand.NewSource(1)))
}

func TestFindDirect_EmitsSpreadAboveThresholds(t *testing.T) {
	// JUP carries a 0.589% spread between Orca and Meteora. SOL is
	// quoted cheaply on the reference venue so the flat gas fee does
	// not swallow the reference-trade profit.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueOrca:    d("1.00"),
			pricingDomain.VenueMeteora: d("1.00"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueOrca:    d("1.25"),
			pricingDomain.VenueMeteora: d("1.2573625"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("20"),
		},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Direct: true})
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}

	opp := opps[0]
	if opp.Strategy != domain.StrategyDirect {
		t.Errorf("strategy = %s, want direct", opp.Strategy)
	}
	if opp.Status != domain.StatusReady {
		t.Errorf("status = %s, want ready", opp.Status)
	}
	if got := opp.Route(); got != "JUP (Orca → Meteora)" {
		t.Errorf("route = %q, want %q", got, "JUP (Orca → Meteora)")
	}

	// (1.2573625/1.25 - 1) * 100 = 0.589%
	if opp.ProfitPct.Sub(d("0.589")).Abs().GreaterThan(d("0.0001")) {
		t.Errorf("profitPct = %s, want ~0.589", opp.ProfitPct)
	}

	// gas = 0.015 SOL * $20 = $0.30
	if !opp.GasCostUSD.Equal(d("0.3")) {
		t.Errorf("gasCostUsd = %s, want 0.3", opp.GasCostUSD)
	}
	if opp.RiskFactor != 0.1 {
		t.Errorf("riskFactor = %v, want 0.1", opp.RiskFactor)
	}
	if !opp.ClosesCycle() {
		t.Error("path does not close on the base token")
	}
}

func TestFindDirect_GasBufferFiltersThinSpreads(t *testing.T) {
	// Same 0.589% spread, but at a realistic SOL price the flat fee
	// exceeds the reference-trade profit: nothing may be emitted.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueOrca:    d("1.00"),
			pricingDomain.VenueMeteora: d("1.00"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueOrca:    d("1.25"),
			pricingDomain.VenueMeteora: d("1.2573625"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("144.55"),
		},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Direct: true})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0 (profit below gas buffer)", len(opps))
	}
}

func TestFindDirect_ProfitPctThreshold(t *testing.T) {
	// 0.2% spread: below the 0.25% noise floor even with cheap gas.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueOrca:    d("1.00"),
			pricingDomain.VenueMeteora: d("1.00"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueOrca:    d("1.25"),
			pricingDomain.VenueMeteora: d("1.2525"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("1"),
		},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Direct: true})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0 (spread below noise floor)", len(opps))
	}
}

func TestFindDirect_SkipsBaseToken(t *testing.T) {
	// A stablecoin venue spread must never surface as a direct play.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueOrca:    d("0.98"),
			pricingDomain.VenueMeteora: d("1.02"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("1"),
		},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Direct: true})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0 (base token skipped)", len(opps))
	}
}

func triangularSnapshot(t *testing.T) *pricingDomain.PriceSnapshot {
	// Venue A prices JUP fairly against SOL; venue B overpays for SOL
	// and underprices JUP, opening USDC -> SOL -> JUP -> USDC.
	return snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueRaydium: d("1.00"),
			pricingDomain.VenueOrca:    d("1.00"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("100"),
			pricingDomain.VenueOrca:    d("101"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueRaydium: d("2"),
			pricingDomain.VenueOrca:    d("1.9"),
		},
	})
}

func TestFindTriangular_EmitsCompoundedCycle(t *testing.T) {
	opps := testFinder(DefaultFinderConfig()).Find(triangularSnapshot(t), Strategies{Triangular: true})
	if len(opps) == 0 {
		t.Fatal("expected triangular opportunities")
	}

	gasUSD := d("0.025").Mul(d("100")) // 0.025 SOL at the $100 reference quote
	var bestProfit decimal.Decimal
	for _, opp := range opps {
		if opp.Strategy != domain.StrategyTriangular {
			t.Errorf("strategy = %s, want triangular", opp.Strategy)
		}
		if len(opp.Path) != 3 {
			t.Errorf("path length = %d, want 3", len(opp.Path))
		}
		if !opp.ClosesCycle() {
			t.Errorf("path %s does not close", opp.Route())
		}
		if !opp.ProfitPct.GreaterThan(d("0.4")) {
			t.Errorf("profitPct = %s, want > 0.4", opp.ProfitPct)
		}
		if !opp.ProfitUSD.GreaterThan(gasUSD.Mul(d("1.3"))) {
			t.Errorf("profitUsd = %s does not clear gas buffer %s", opp.ProfitUSD, gasUSD.Mul(d("1.3")))
		}
		if opp.RiskFactor < 0.3 || opp.RiskFactor >= 0.5 {
			t.Errorf("riskFactor = %v, want in [0.3, 0.5)", opp.RiskFactor)
		}
		if opp.ProfitUSD.GreaterThan(bestProfit) {
			bestProfit = opp.ProfitUSD
		}
	}

	// Best route: buy SOL at 100 (Raydium), swap to JUP at 101/1.9
	// (Orca), sell JUP at 2 (Raydium): 100 * (101/1.9) * 2 / 100 - 100.
	wantBest := d("100").Div(d("100")).Mul(d("101").Div(d("1.9"))).Mul(d("2")).Sub(d("100"))
	if bestProfit.Sub(wantBest).Abs().GreaterThan(d("0.0000001")) {
		t.Errorf("best profit = %s, want %s", bestProfit, wantBest)
	}
}

func TestFindTriangular_NoArbOnConsistentPrices(t *testing.T) {
	// A single venue can never be out of line with itself.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {pricingDomain.VenueRaydium: d("1.00")},
		token.SymbolSOL:  {pricingDomain.VenueRaydium: d("100")},
		token.SymbolJUP:  {pricingDomain.VenueRaydium: d("2")},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Triangular: true})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0", len(opps))
	}
}

func TestFindQuadrilateral_SampledCyclesHonorInvariants(t *testing.T) {
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueRaydium: d("1.00"),
			pricingDomain.VenueOrca:    d("1.00"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("100"),
			pricingDomain.VenueOrca:    d("108"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueRaydium: d("2"),
			pricingDomain.VenueOrca:    d("1.85"),
		},
		token.SymbolMSOL: {
			pricingDomain.VenueRaydium: d("104"),
			pricingDomain.VenueOrca:    d("97"),
		},
	})

	cfg := DefaultFinderConfig()
	cfg.QuadSamples = 50

	gasBuffer := d("0.035").Mul(d("100")).Mul(d("1.4"))
	for seed := int64(0); seed < 5; seed++ {
		finder := NewFinderWithRand(cfg, rand.New(rand.NewSource(seed)))
		for _, opp := range finder.Find(snap, Strategies{Quadrilateral: true}) {
			if opp.Strategy != domain.StrategyQuadrilateral {
				t.Errorf("strategy = %s, want quadrilateral", opp.Strategy)
			}
			if len(opp.Path) != 4 {
				t.Errorf("path length = %d, want 4", len(opp.Path))
			}
			if !opp.ClosesCycle() {
				t.Errorf("path %s does not close", opp.Route())
			}
			if !opp.ProfitPct.GreaterThan(d("0.5")) {
				t.Errorf("profitPct = %s, want > 0.5", opp.ProfitPct)
			}
			if !opp.ProfitUSD.GreaterThan(gasBuffer) {
				t.Errorf("profitUsd = %s does not clear gas buffer %s", opp.ProfitUSD, gasBuffer)
			}
			if opp.RiskFactor < 0.5 || opp.RiskFactor >= 0.8 {
				t.Errorf("riskFactor = %v, want in [0.5, 0.8)", opp.RiskFactor)
			}
		}
	}
}

func TestFindQuadrilateral_NeedsThreeMids(t *testing.T) {
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {pricingDomain.VenueRaydium: d("1.00")},
		token.SymbolSOL:  {pricingDomain.VenueRaydium: d("100")},
		token.SymbolJUP:  {pricingDomain.VenueRaydium: d("2")},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Quadrilateral: true})
	if len(opps) != 0 {
		t.Fatalf("got %d opportunities, want 0 with only two mids", len(opps))
	}
}

func TestFind_DispatcherConcatenatesStrategies(t *testing.T) {
	snap := triangularSnapshot(t)
	finder := testFinder(DefaultFinderConfig())

	none := finder.Find(snap, Strategies{})
	if len(none) != 0 {
		t.Fatalf("got %d opportunities with all strategies disabled", len(none))
	}

	tri := finder.Find(snap, Strategies{Triangular: true})
	all := finder.Find(snap, Strategies{Direct: true, Triangular: true, Quadrilateral: true})
	if len(all) < len(tri) {
		t.Errorf("all-strategies scan found %d < triangular-only %d", len(all), len(tri))
	}
}

func TestFind_NoReferenceSOLQuote(t *testing.T) {
	// Without the reference venue's SOL quote gas cannot be priced.
	snap := snapshot(t, map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {pricingDomain.VenueOrca: d("1.00")},
		token.SymbolJUP: {
			pricingDomain.VenueOrca:    d("1.25"),
			pricingDomain.VenueMeteora: d("1.35"),
		},
	})

	opps := testFinder(DefaultFinderConfig()).Find(snap, Strategies{Direct: true})
	if opps != nil {
		t.Fatalf("got %d opportunities, want none", len(opps))
	}
}

func TestFind_UniqueIDs(t *testing.T) {
	finder := testFinder(DefaultFinderConfig())
	snap := triangularSnapshot(t)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		for _, opp := range finder.Find(snap, Strategies{Triangular: true}) {
			if seen[opp.ID] {
				t.Fatalf("duplicate id %s", opp.ID)
			}
			seen[opp.ID] = true
		}
	}
}

func BenchmarkFind(b *testing.B) {
	prices := map[token.Symbol]map[pricingDomain.Venue]decimal.Decimal{
		token.SymbolUSDC: {
			pricingDomain.VenueRaydium: d("1.00"),
			pricingDomain.VenueJupiter: d("1.00"),
			pricingDomain.VenueOrca:    d("1.00"),
			pricingDomain.VenueMeteora: d("1.00"),
		},
		token.SymbolSOL: {
			pricingDomain.VenueRaydium: d("144.55"),
			pricingDomain.VenueJupiter: d("144.95"),
			pricingDomain.VenueOrca:    d("144.25"),
			pricingDomain.VenueMeteora: d("145.10"),
		},
		token.SymbolJUP: {
			pricingDomain.VenueRaydium: d("1.26"),
			pricingDomain.VenueJupiter: d("1.27"),
			pricingDomain.VenueOrca:    d("1.25"),
			pricingDomain.VenueMeteora: d("1.28"),
		},
		token.SymbolMSOL: {
			pricingDomain.VenueRaydium: d("147.20"),
			pricingDomain.VenueJupiter: d("146.90"),
			pricingDomain.VenueOrca:    d("147.05"),
			pricingDomain.VenueMeteora: d("147.40"),
		},
	}
	snap, err := pricingDomain.NewPriceSnapshot(prices, time.Now())
	if err != nil {
		b.Fatalf("building snapshot: %v", err)
	}
	finder := NewFinderWithRand(DefaultFinderConfig(), rand.New(rand.NewSource(1)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		finder.Find(snap, Strategies{Direct: true, Triangular: true, Quadrilateral: true})
	}
}
